package render

// ScrollOffset is how far below the viewport top a heading still counts as
// the current one, in pixels.
const ScrollOffset = 150

// ActiveHeading returns the index of the last heading whose offset is at or
// above scrollY+ScrollOffset, or -1 when none is. offsets are in document order.
func ActiveHeading(offsets []int, scrollY int) int {
	active := -1
	for i, top := range offsets {
		if top <= scrollY+ScrollOffset {
			active = i
		}
	}
	return active
}

// Progress returns reading progress in percent, clamped to [0,100]. A page
// that fits in the viewport reports 0.
func Progress(scrollY, docHeight, viewportHeight float64) float64 {
	scrollable := docHeight - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	return min(max(scrollY/scrollable*100, 0), 100)
}
