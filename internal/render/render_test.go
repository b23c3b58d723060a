package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/mocinformacji/internal/models"
)

func TestSplitHTML_TwoHeadingsThreeSections(t *testing.T) {
	doc, err := SplitHTML(`<p>intro</p><h2>A</h2><p>a</p><h2>B</h2><p>b</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("sections = %d, want 3: %q", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0] != "<p>intro</p>" {
		t.Errorf("preamble = %q", doc.Sections[0])
	}
	if !strings.HasPrefix(doc.Sections[1], `<h2 id="section-0">A</h2>`) {
		t.Errorf("section 1 = %q", doc.Sections[1])
	}
}

func TestSplitHTML_ThreeHeadingsFourSections(t *testing.T) {
	src := `<p>intro</p>
<h2 id="pierwszy">Pierwszy</h2><p>1</p>
<h2>Drugi</h2><ul><li>2</li></ul>
<h2>  Trzeci
  nagłówek </h2><p>3</p>`
	doc, err := SplitHTML(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(doc.Sections))
	}
	want := []models.TocItem{
		{ID: "pierwszy", Text: "Pierwszy", Level: 2},
		{ID: "section-1", Text: "Drugi", Level: 2},
		{ID: "section-2", Text: "Trzeci nagłówek", Level: 2},
	}
	if diff := cmp.Diff(want, doc.TOC); diff != "" {
		t.Errorf("toc (-want +got):\n%s", diff)
	}
	for _, item := range doc.TOC {
		if !strings.Contains(strings.Join(doc.Sections, ""), `id="`+item.ID+`"`) {
			t.Errorf("anchor %q missing from rendered html", item.ID)
		}
	}
}

func TestSplitHTML_NoHeadingsSingleSection(t *testing.T) {
	doc, err := SplitHTML(`<p>one</p><p>two</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 1 || len(doc.TOC) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestSplitHTML_LeadingHeadingHasNoEmptyPreamble(t *testing.T) {
	doc, err := SplitHTML("\n  <h2>A</h2><p>a</p>")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 1 {
		t.Errorf("sections = %q", doc.Sections)
	}
}

func TestSplitHTML_NestedHeadingGetsAnchorOnly(t *testing.T) {
	doc, err := SplitHTML(`<div><h2>Wewnątrz</h2><p>x</p></div><h2>Na zewnątrz</h2><p>y</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(doc.Sections))
	}
	if len(doc.TOC) != 2 || doc.TOC[0].ID != "section-0" || doc.TOC[1].ID != "section-1" {
		t.Errorf("toc = %+v", doc.TOC)
	}
}

func TestSplitHTML_Empty(t *testing.T) {
	doc, err := SplitHTML("   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("sections = %q", doc.Sections)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Block
	}{
		{"## Title", Block{Kind: Heading2, Text: "Title"}},
		{"### Sub", Block{Kind: Heading3, Text: "Sub"}},
		{"- a\n- b", Block{Kind: UnorderedList, Items: []string{"a", "b"}}},
		{"Lista:\n- x\n  - y", Block{Kind: UnorderedList, Items: []string{"x", "y"}}},
		{"1. raz\n2. dwa", Block{Kind: OrderedList, Items: []string{"raz", "dwa"}}},
		{"Kroki:\n1. start", Block{Kind: OrderedList, Items: []string{"start"}}},
		{"Zwykły akapit - z myślnikiem.", Block{Kind: Paragraph, Text: "Zwykły akapit - z myślnikiem."}},
		{"##Bez spacji", Block{Kind: Paragraph, Text: "##Bez spacji"}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, Classify(c.in)); diff != "" {
			t.Errorf("Classify(%q) (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestClassify_ParagraphWithListMarkerIsList(t *testing.T) {
	b := Classify("Wstęp do tematu\n- ukryta lista")
	if b.Kind != UnorderedList {
		t.Errorf("kind = %v, want ul", b.Kind)
	}
}

func TestSplitLegacy(t *testing.T) {
	doc := SplitLegacy([]string{
		"Wstęp <b>",
		"## Pierwszy",
		"- a\n- b",
		"## Drugi",
		"1. x",
	})
	want := []string{
		"<p>Wstęp &lt;b&gt;</p>",
		`<h2 id="section-0">Pierwszy</h2><ul><li>a</li><li>b</li></ul>`,
		`<h2 id="section-1">Drugi</h2><ol><li>x</li></ol>`,
	}
	if diff := cmp.Diff(want, doc.Sections); diff != "" {
		t.Errorf("sections (-want +got):\n%s", diff)
	}
	if len(doc.TOC) != 2 || doc.TOC[1].Text != "Drugi" {
		t.Errorf("toc = %+v", doc.TOC)
	}
}

func TestBuild_Shapes(t *testing.T) {
	doc, err := Build(&models.Article{Article: "<h2>A</h2>", Content: []string{"ignored"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.TOC) != 1 || doc.TOC[0].Text != "A" {
		t.Errorf("html shape toc = %+v", doc.TOC)
	}

	doc, _ = Build(&models.Article{Article: "  \n", Content: []string{"## Wstęp", "tekst"}})
	if len(doc.TOC) != 1 || doc.TOC[0].Text != "Wstęp" {
		t.Errorf("blank html with content toc = %+v", doc.TOC)
	}

	doc, _ = Build(&models.Article{Sections: []string{"## Jeden", "Dwa"}})
	if len(doc.Sections) != 1 || !strings.Contains(doc.Sections[0], "<li>Jeden</li>") ||
		!strings.Contains(doc.Sections[0], outlineNotice) {
		t.Errorf("outline = %q", doc.Sections)
	}

	doc, _ = Build(&models.Article{})
	if len(doc.Sections) != 1 || !strings.Contains(doc.Sections[0], pendingNotice) {
		t.Errorf("empty = %q", doc.Sections)
	}
}

func TestShowFAQ(t *testing.T) {
	faq := []models.FAQItem{{Question: "Q", Answer: "A"}}
	if !ShowFAQ(&models.Article{FAQ: faq}) {
		t.Error("faq hidden on regular article")
	}
	if ShowFAQ(&models.Article{FAQ: faq, ComparisonType: models.ComparisonVS}) {
		t.Error("faq shown on comparison article")
	}
}

func adSlots(parts []Part) []Slot {
	var out []Slot
	for _, p := range parts {
		if p.Kind == PartAd {
			out = append(out, p.Slot)
		}
	}
	return out
}

func TestLayout(t *testing.T) {
	parts := Layout(4, true)
	want := []Part{
		{Kind: PartAd, Slot: SlotHeader},
		{Kind: PartSection, Section: 0},
		{Kind: PartAd, Slot: SlotAfterFirst},
		{Kind: PartSection, Section: 1},
		{Kind: PartAd, Slot: SlotAfterSecond},
		{Kind: PartSection, Section: 2},
		{Kind: PartSection, Section: 3},
		{Kind: PartAd, Slot: SlotAfterContent},
		{Kind: PartFAQ},
		{Kind: PartAd, Slot: SlotAfterFAQ},
		{Kind: PartAd, Slot: SlotMobileFixed},
	}
	if diff := cmp.Diff(want, parts); diff != "" {
		t.Errorf("layout (-want +got):\n%s", diff)
	}

	got := adSlots(Layout(1, false))
	if diff := cmp.Diff([]Slot{SlotHeader, SlotAfterContent, SlotMobileFixed}, got); diff != "" {
		t.Errorf("single section (-want +got):\n%s", diff)
	}
	got = adSlots(Layout(2, false))
	if diff := cmp.Diff([]Slot{SlotHeader, SlotAfterFirst, SlotAfterContent, SlotMobileFixed}, got); diff != "" {
		t.Errorf("two sections (-want +got):\n%s", diff)
	}
}

func TestActiveHeading(t *testing.T) {
	offsets := []int{100, 600, 1200}
	cases := map[int]int{
		-200: -1,
		0:    0,
		449:  0,
		450:  1,
		1049: 1,
		1050: 2,
		9000: 2,
	}
	for y, want := range cases {
		if got := ActiveHeading(offsets, y); got != want {
			t.Errorf("ActiveHeading(%d) = %d, want %d", y, got, want)
		}
	}
	if got := ActiveHeading(nil, 0); got != -1 {
		t.Errorf("no headings = %d", got)
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		y, doc, view, want float64
	}{
		{0, 2000, 1000, 0},
		{500, 2000, 1000, 50},
		{1000, 2000, 1000, 100},
		{1500, 2000, 1000, 100},
		{-10, 2000, 1000, 0},
		{100, 800, 1000, 0},
	}
	for _, c := range cases {
		if got := Progress(c.y, c.doc, c.view); got != c.want {
			t.Errorf("Progress(%v,%v,%v) = %v, want %v", c.y, c.doc, c.view, got, c.want)
		}
	}
}
