package catalog

import "testing"

func TestCategoryInfo_Known(t *testing.T) {
	m := CategoryInfo("Finanse")
	if m.Name != "Finanse" || m.Icon != "bi-cash-coin" || m.Color != "#28a745" {
		t.Errorf("meta = %+v", m)
	}
	if m.Slug != "Finanse" {
		t.Errorf("slug = %q", m.Slug)
	}
}

func TestCategoryInfo_Fallback(t *testing.T) {
	cases := map[string]string{
		"ogrodnictwo": "Ogrodnictwo",
		"środowisko":  "Środowisko",
		"łowiectwo":   "Łowiectwo",
	}
	for slug, want := range cases {
		m := CategoryInfo(slug)
		if m.Name != want {
			t.Errorf("CategoryInfo(%q).Name = %q, want %q", slug, m.Name, want)
		}
		if m.Icon != defaultIcon || m.Color != defaultColor || m.Description != defaultDescription {
			t.Errorf("fallback styling = %+v", m)
		}
		if m.Image == "" {
			t.Error("expected fallback image")
		}
	}
}

func TestFeaturedImage(t *testing.T) {
	if got := FeaturedImage("https://example.com/a.jpg", "finanse"); got != "https://example.com/a.jpg" {
		t.Errorf("explicit image = %q", got)
	}
	if got := FeaturedImage("", "prawo"); got != CategoryInfo("prawo").Image {
		t.Errorf("category image = %q", got)
	}
	if got := FeaturedImage(" ", "nieznana"); got != CategoryInfo("technologia").Image {
		t.Errorf("fallback image = %q", got)
	}
}
