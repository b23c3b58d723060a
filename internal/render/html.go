// Package render turns one article into display sections, a table of
// contents and an ad schedule. Everything here is a pure function of its input.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/mocinformacji/internal/models"
)

// Document is a rendered article body.
type Document struct {
	Sections []string
	TOC      []models.TocItem
}

// SplitHTML parses src as body content and cuts it into sections at every
// top-level <h2>. Content before the first heading forms its own section;
// sections that render blank are dropped. Every <h2> in the document, nested
// or not, receives an id (its own, or section-{index}) and a TOC entry.
func SplitHTML(src string) (Document, error) {
	var doc Document
	if strings.TrimSpace(src) == "" {
		return doc, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return doc, fmt.Errorf("render: parse html: %w", err)
	}

	var (
		current []*html.Node
		h2Count int
	)
	flush := func() error {
		section, err := renderNodes(current)
		if err != nil {
			return err
		}
		if strings.TrimSpace(section) != "" {
			doc.Sections = append(doc.Sections, section)
		}
		current = nil
		return nil
	}

	for _, n := range nodes {
		if isH2(n) {
			if err := flush(); err != nil {
				return Document{}, err
			}
		}
		walk(n, func(h *html.Node) {
			if !isH2(h) {
				return
			}
			id := ensureID(h, h2Count)
			h2Count++
			doc.TOC = append(doc.TOC, tocItem(id, textContent(h)))
		})
		current = append(current, n)
	}
	if err := flush(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func isH2(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.H2
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ensureID returns the heading's id, assigning section-{index} when absent.
func ensureID(n *html.Node, index int) string {
	if id := strings.TrimSpace(getAttr(n, "id")); id != "" {
		return id
	}
	id := SectionID(index)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "id" {
			n.Attr[i].Val = id
			return id
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
	return id
}

// SectionID is the anchor given to the index-th level-2 heading without an id.
func SectionID(index int) string {
	return fmt.Sprintf("section-%d", index)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

func renderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render: write html: %w", err)
		}
	}
	return buf.String(), nil
}

func tocItem(id, text string) models.TocItem {
	return models.TocItem{ID: id, Text: strings.Join(strings.Fields(text), " "), Level: 2}
}
