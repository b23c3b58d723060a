package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/starford/mocinformacji/internal/models"
)

const (
	outlineTitle   = "Spis treści"
	outlineNotice  = "Pełna treść artykułu będzie wkrótce dostępna."
	pendingNotice  = "Treść artykułu jest w trakcie przygotowania."
	noticeTemplate = `<div class="alert alert-info">%s</div>`
)

// Build renders the body of a. The HTML blob wins when present; otherwise
// Content entries are classified, and a Sections-only record becomes an
// outline with a notice.
func Build(a *models.Article) (Document, error) {
	switch {
	case a.HasLegacyBody() && len(a.Content) > 0:
		return SplitLegacy(a.Content), nil
	case a.HasLegacyBody():
		return outline(a.Sections), nil
	case strings.TrimSpace(a.Article) != "":
		return SplitHTML(a.Article)
	default:
		return Document{Sections: []string{notice(pendingNotice)}}, nil
	}
}

func outline(titles []string) Document {
	var sb strings.Builder
	id := SectionID(0)
	sb.WriteString(`<h2 id="` + id + `">` + outlineTitle + `</h2><ul>`)
	for _, t := range titles {
		sb.WriteString("<li>" + html.EscapeString(strings.TrimPrefix(t, "## ")) + "</li>")
	}
	sb.WriteString("</ul>")
	sb.WriteString(notice(outlineNotice))
	return Document{
		Sections: []string{sb.String()},
		TOC:      []models.TocItem{tocItem(id, outlineTitle)},
	}
}

func notice(msg string) string {
	return fmt.Sprintf(noticeTemplate, html.EscapeString(msg))
}

// ShowFAQ reports whether the FAQ block is displayed for a. Comparison
// articles carry their questions inline.
func ShowFAQ(a *models.Article) bool {
	return len(a.FAQ) > 0 && !a.IsComparison()
}
