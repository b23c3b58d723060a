package models

import (
	"testing"
	"time"
)

func TestHasLegacyBody(t *testing.T) {
	cases := []struct {
		name string
		a    Article
		want bool
	}{
		{"html", Article{Article: "<p>x</p>", Content: []string{"y"}}, false},
		{"content", Article{Content: []string{"y"}}, true},
		{"sections", Article{Sections: []string{"## A"}}, true},
		{"blank html", Article{Article: " \n\t", Content: []string{"y"}}, true},
		{"empty", Article{}, false},
	}
	for _, c := range cases {
		if got := c.a.HasLegacyBody(); got != c.want {
			t.Errorf("%s: HasLegacyBody() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSummary_UndatedUsesEpoch(t *testing.T) {
	a := Article{Title: "Najem", Category: "prawo", Slug: "najem"}
	if got := a.Summary().LastModified; !got.Equal(DefaultModified) {
		t.Errorf("LastModified = %v, want %v", got, DefaultModified)
	}
	if DefaultModified.Format(time.RFC3339) != "1970-01-01T00:00:00Z" {
		t.Errorf("DefaultModified = %v", DefaultModified)
	}

	dated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a.LastModified = dated
	if got := a.Summary().LastModified; !got.Equal(dated) {
		t.Errorf("LastModified = %v, want %v", got, dated)
	}
}
