package render

// Slot names one fixed advertisement position on the article page.
type Slot string

const (
	SlotHeader       Slot = "header"
	SlotAfterFirst   Slot = "in-article-1"
	SlotAfterSecond  Slot = "in-article-2"
	SlotAfterContent Slot = "after-content"
	SlotAfterFAQ     Slot = "after-faq"
	SlotMobileFixed  Slot = "mobile-fixed"
)

// Slots lists every slot in page order.
var Slots = []Slot{SlotHeader, SlotAfterFirst, SlotAfterSecond, SlotAfterContent, SlotAfterFAQ, SlotMobileFixed}

// PartKind is the kind of one entry in the page layout.
type PartKind int

const (
	PartSection PartKind = iota
	PartAd
	PartFAQ
)

// Part is one entry of the article layout. Section is the section index for
// PartSection; Slot is set for PartAd.
type Part struct {
	Kind    PartKind
	Section int
	Slot    Slot
}

// Layout interleaves sections with the static ad schedule: a header unit, a
// unit after the first and second sections when more follow, one after the
// content, one after the FAQ when it is shown, and a mobile fixed unit last.
func Layout(sections int, withFAQ bool) []Part {
	parts := []Part{{Kind: PartAd, Slot: SlotHeader}}
	for i := 0; i < sections; i++ {
		if i == 1 {
			parts = append(parts, Part{Kind: PartAd, Slot: SlotAfterFirst})
		}
		if i == 2 {
			parts = append(parts, Part{Kind: PartAd, Slot: SlotAfterSecond})
		}
		parts = append(parts, Part{Kind: PartSection, Section: i})
	}
	parts = append(parts, Part{Kind: PartAd, Slot: SlotAfterContent})
	if withFAQ {
		parts = append(parts, Part{Kind: PartFAQ}, Part{Kind: PartAd, Slot: SlotAfterFAQ})
	}
	return append(parts, Part{Kind: PartAd, Slot: SlotMobileFixed})
}
