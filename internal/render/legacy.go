package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// BlockKind identifies how a legacy content entry is displayed.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading2
	Heading3
	UnorderedList
	OrderedList
)

func (k BlockKind) String() string {
	switch k {
	case Heading2:
		return "h2"
	case Heading3:
		return "h3"
	case UnorderedList:
		return "ul"
	case OrderedList:
		return "ol"
	default:
		return "p"
	}
}

// Block is one classified legacy entry.
type Block struct {
	Kind  BlockKind
	Text  string
	Items []string
}

var (
	reOrderedItem  = regexp.MustCompile(`^\d+\.\s`)
	reOrderedStart = regexp.MustCompile(`^\d+\. `)
)

// Classify maps one legacy entry to a block by prefix. The checks run in a
// fixed order and the first hit wins, so a paragraph containing "\n- " is a
// list.
func Classify(entry string) Block {
	switch {
	case strings.HasPrefix(entry, "## "):
		return Block{Kind: Heading2, Text: strings.TrimSpace(entry[len("## "):])}
	case strings.HasPrefix(entry, "### "):
		return Block{Kind: Heading3, Text: strings.TrimSpace(entry[len("### "):])}
	case strings.Contains(entry, "\n- ") || strings.HasPrefix(entry, "- "):
		var items []string
		for _, line := range strings.Split(entry, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "- ") {
				items = append(items, strings.TrimPrefix(line, "- "))
			}
		}
		return Block{Kind: UnorderedList, Items: items}
	case strings.Contains(entry, "\n1. ") || reOrderedStart.MatchString(entry):
		var items []string
		for _, line := range strings.Split(entry, "\n") {
			line = strings.TrimSpace(line)
			if loc := reOrderedItem.FindStringIndex(line); loc != nil {
				items = append(items, line[loc[1]:])
			}
		}
		return Block{Kind: OrderedList, Items: items}
	default:
		return Block{Kind: Paragraph, Text: entry}
	}
}

// HTML renders the block with its text escaped. id is applied to level-2
// headings only.
func (b Block) HTML(id string) string {
	var sb strings.Builder
	switch b.Kind {
	case Heading2:
		sb.WriteString(`<h2 id="` + html.EscapeString(id) + `">` + html.EscapeString(b.Text) + `</h2>`)
	case Heading3:
		sb.WriteString(`<h3>` + html.EscapeString(b.Text) + `</h3>`)
	case UnorderedList, OrderedList:
		tag := b.Kind.String()
		sb.WriteString("<" + tag + ">")
		for _, item := range b.Items {
			sb.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		sb.WriteString("</" + tag + ">")
	default:
		sb.WriteString("<p>" + html.EscapeString(b.Text) + "</p>")
	}
	return sb.String()
}

// SplitLegacy classifies entries and groups the rendered blocks into sections
// at every level-2 heading, with the same emission rule as SplitHTML.
func SplitLegacy(entries []string) Document {
	var (
		doc     Document
		current strings.Builder
		h2Count int
	)
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			doc.Sections = append(doc.Sections, current.String())
		}
		current.Reset()
	}
	for _, entry := range entries {
		b := Classify(entry)
		var id string
		if b.Kind == Heading2 {
			flush()
			id = SectionID(h2Count)
			h2Count++
			doc.TOC = append(doc.TOC, tocItem(id, b.Text))
		}
		current.WriteString(b.HTML(id))
	}
	flush()
	return doc
}
