package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryMeta is display metadata for one category directory.
type CategoryMeta struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Image       string `json:"image"`
}

const (
	defaultIcon        = "bi-folder"
	defaultColor       = "#6c757d"
	defaultDescription = "Artykuły eksperckie z tej kategorii"
	fallbackImageKey   = "technologia"
)

var knownCategories = map[string]CategoryMeta{
	"finanse": {
		Name:        "Finanse",
		Description: "Wszystko o finansach osobistych, inwestycjach, kredytach i ubezpieczeniach",
		Icon:        "bi-cash-coin",
		Color:       "#28a745",
		Image:       "https://images.unsplash.com/photo-1579621970563-ebec7560ff3e?w=1200&h=600&fit=crop",
	},
	"prawo": {
		Name:        "Prawo",
		Description: "Porady prawne, regulacje i objaśnienia przepisów",
		Icon:        "bi-bank",
		Color:       "#6f42c1",
		Image:       "https://images.unsplash.com/photo-1589829545856-d10d557cf95f?w=1200&h=600&fit=crop",
	},
	"technologia": {
		Name:        "Technologia",
		Description: "Najnowsze technologie, gadżety i innowacje",
		Icon:        "bi-cpu",
		Color:       "#0dcaf0",
		Image:       "https://images.unsplash.com/photo-1518770660439-4636190af475?w=1200&h=600&fit=crop",
	},
	"zdrowie": {
		Name:        "Zdrowie",
		Description: "Zdrowie, medycyna i profilaktyka",
		Icon:        "bi-heart-pulse",
		Color:       "#dc3545",
		Image:       "https://images.unsplash.com/photo-1505751172876-fa1923c5c528?w=1200&h=600&fit=crop",
	},
	"biznes": {
		Name:        "Biznes",
		Description: "Biznes, przedsiębiorczość i rozwój firmy",
		Icon:        "bi-briefcase",
		Color:       "#fd7e14",
		Image:       "https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=1200&h=600&fit=crop",
	},
	"nieruchomosci": {
		Name:        "Nieruchomości",
		Description: "Kupno, wynajem i finansowanie nieruchomości",
		Icon:        "bi-house",
		Color:       "#20c997",
		Image:       "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=1200&h=600&fit=crop",
	},
	"motoryzacja": {
		Name:        "Motoryzacja",
		Description: "Samochody, przepisy drogowe i koszty utrzymania auta",
		Icon:        "bi-car-front",
		Color:       "#6610f2",
		Image:       "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?w=1200&h=600&fit=crop",
	},
	"edukacja": {
		Name:        "Edukacja",
		Description: "Edukacja, rozwój osobisty i nauka",
		Icon:        "bi-book",
	},
	"lifestyle": {
		Name:        "Styl życia",
		Description: "Styl życia, hobby i rozrywka",
		Icon:        "bi-stars",
	},
	"co-to-jest":  {Name: "Definicje i Pojęcia", Icon: "bi-lightbulb"},
	"jak-dziala":  {Name: "Poradniki i Mechanizmy", Icon: "bi-gear"},
	"porownania":  {Name: "Zestawienia i Porównania", Icon: "bi-arrows-expand"},
	"czy":         {Name: "Pytania i Odpowiedzi", Icon: "bi-question-circle"},
	"kalkulatory": {Name: "Narzędzia i Kalkulatory", Icon: "bi-calculator"},
}

// CategoryInfo returns display metadata for slug. Unknown categories get
// their slug with the first letter upper-cased and neutral styling.
func CategoryInfo(slug string) CategoryMeta {
	meta, ok := knownCategories[strings.ToLower(slug)]
	if !ok {
		meta = CategoryMeta{Name: capitalize(slug)}
	}
	meta.Slug = slug
	if meta.Description == "" {
		meta.Description = defaultDescription
	}
	if meta.Icon == "" {
		meta.Icon = defaultIcon
	}
	if meta.Color == "" {
		meta.Color = defaultColor
	}
	if meta.Image == "" {
		meta.Image = knownCategories[fallbackImageKey].Image
	}
	return meta
}

// capitalize upper-cases the first letter only, with Polish casing rules.
// A Caser is stateful, so each call builds its own.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Polish).String(string(r)) + s[size:]
}

// FeaturedImage returns the article image, falling back to the category image.
func FeaturedImage(image, category string) string {
	if strings.TrimSpace(image) != "" {
		return image
	}
	return CategoryInfo(category).Image
}
