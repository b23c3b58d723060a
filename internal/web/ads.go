package web

import "github.com/starford/mocinformacji/internal/render"

// Ads configures advertisement slots. Slots are emitted as inert markers
// carrying the slot position and unit id; no ad network script is rendered.
type Ads struct {
	Enabled bool
	// Placeholder renders a visible box in place of each marker.
	Placeholder bool
	Slots       map[render.Slot]string
}

// DefaultAdSlots are the unit ids used when the configuration names none.
var DefaultAdSlots = map[render.Slot]string{
	render.SlotHeader:       "8888888881",
	render.SlotAfterFirst:   "8888888882",
	render.SlotAfterSecond:  "8888888883",
	render.SlotAfterContent: "8888888884",
	render.SlotAfterFAQ:     "8888888885",
	render.SlotMobileFixed:  "0000000001",
}

func (a Ads) slotID(slot render.Slot) string {
	if id := a.Slots[slot]; id != "" {
		return id
	}
	return DefaultAdSlots[slot]
}

func adFormat(slot render.Slot) string {
	switch slot {
	case render.SlotAfterFirst, render.SlotAfterSecond:
		return "fluid"
	case render.SlotMobileFixed:
		return "horizontal"
	default:
		return "auto"
	}
}

func (a Ads) visible() bool {
	return a.Enabled || a.Placeholder
}

func adClass(slot render.Slot) string {
	if slot == render.SlotMobileFixed {
		return "ad-mobile-fixed d-md-none"
	}
	return "ad-container my-4 ad-" + string(slot)
}
