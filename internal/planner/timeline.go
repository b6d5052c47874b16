package planner

import "sort"

// timeline tracks the visit window plus reserved blocking intervals
// (meals, breaks). Blocks are laid down before greedy placement begins so
// requested rest time survives a dense schedule.
type timeline struct {
	openMin  int
	closeMin int
	blocks   []span
}

type span struct{ start, end int }

func newTimeline(open, close int) *timeline {
	return &timeline{openMin: open, closeMin: close}
}

// reserve marks [start,end) as blocked. Returns false when the interval
// does not fit the window or collides with an existing block.
func (t *timeline) reserve(start, end int) bool {
	if start < t.openMin || end > t.closeMin || end <= start {
		return false
	}
	for _, b := range t.blocks {
		if start < b.end && b.start < end {
			return false
		}
	}
	t.blocks = append(t.blocks, span{start, end})
	sort.Slice(t.blocks, func(i, j int) bool { return t.blocks[i].start < t.blocks[j].start })
	return true
}

// earliestFit returns the earliest start >= from where an interval of
// length dur avoids every block and still ends by close.
func (t *timeline) earliestFit(from, dur int) (int, bool) {
	start := from
	if start < t.openMin {
		start = t.openMin
	}
	for {
		if start+dur > t.closeMin {
			return 0, false
		}
		bumped := false
		for _, b := range t.blocks {
			if start < b.end && b.start < start+dur {
				start = b.end
				bumped = true
				break
			}
		}
		if !bumped {
			return start, true
		}
	}
}

// fitsAt reports whether [start, start+dur) is inside the window and
// clear of blocks. Used for fixed showtimes, which cannot be moved.
func (t *timeline) fitsAt(start, dur int) bool {
	if start < t.openMin || start+dur > t.closeMin {
		return false
	}
	for _, b := range t.blocks {
		if start < b.end && b.start < start+dur {
			return false
		}
	}
	return true
}
