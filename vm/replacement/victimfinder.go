// Package replacement provides the victim-selection strategies used when
// the physical frame pool is exhausted.
package replacement

import "github.com/radiateos/vmcore/vm"

// A VictimFinder decides which resident page should be evicted.
type VictimFinder interface {
	FindVictim(pt vm.PageTable) (vm.Page, bool)
}

// LRUVictimFinder prefers a page whose accessed bit is clear, falling back
// to the first page when every page has been accessed. It never clears
// accessed bits itself, so it approximates "any not recently used page"
// rather than timestamp-ordered LRU.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRU evictor.
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim returns the first page with a clear accessed bit, or the first
// page overall when none qualifies. The bool return value is false only when
// the page table is empty.
func (e *LRUVictimFinder) FindVictim(pt vm.PageTable) (vm.Page, bool) {
	pages := pt.All()
	if len(pages) == 0 {
		return vm.Page{}, false
	}

	for _, page := range pages {
		if !page.Accessed {
			return page, true
		}
	}

	return pages[0], true
}

// ClockVictimFinder implements the second-chance policy. A persistent hand
// sweeps the pages circularly; an accessed page gets its bit cleared and is
// passed over once, an unaccessed page is the victim.
type ClockVictimFinder struct {
	hand int
}

// NewClockVictimFinder returns a newly constructed clock evictor.
func NewClockVictimFinder() *ClockVictimFinder {
	return &ClockVictimFinder{}
}

// FindVictim sweeps at most 2×len(pages) steps, clearing accessed bits as
// the hand passes. If every step finds an accessed page it falls back to the
// first page. The bool return value is false only when the page table is
// empty.
func (e *ClockVictimFinder) FindVictim(pt vm.PageTable) (vm.Page, bool) {
	pages := pt.All()
	if len(pages) == 0 {
		return vm.Page{}, false
	}

	if e.hand >= len(pages) {
		e.hand = 0
	}

	for i := 0; i < 2*len(pages); i++ {
		page := pages[e.hand]

		if !page.Accessed {
			e.hand = (e.hand + 1) % len(pages)
			return page, true
		}

		page.Accessed = false
		pt.Update(page)
		pages[e.hand] = page

		e.hand = (e.hand + 1) % len(pages)
	}

	return pages[0], true
}
