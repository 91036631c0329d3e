// Package tlb provides a bounded translation cache that avoids a full
// page-table lookup on every access.
package tlb

import (
	"container/list"

	"github.com/radiateos/vmcore/vm"
)

// An Entry is a cached virtual-to-physical translation.
type Entry struct {
	VPN   uint64
	Frame vm.Frame
}

// A TLB is a capacity-bounded translation cache with strict LRU
// replacement, most recently used at the front. Entries are derived from
// page-table entries; eviction and deallocation must invalidate the
// matching entry so the cache never serves a translation for a page that
// is no longer resident.
type TLB interface {
	Translate(vAddr uint64) (pAddr uint64, found bool)
	Add(vpn uint64, frame vm.Frame)
	Invalidate(vpn uint64)
	Flush()
	Len() int
	All() []Entry
}

// New creates a TLB with the given capacity.
func New(capacity int) TLB {
	if capacity <= 0 {
		panic("tlb capacity must be positive")
	}

	return &tlbImpl{
		capacity: capacity,
		entries:  list.New(),
		byVPN:    make(map[uint64]*list.Element),
	}
}

type tlbImpl struct {
	capacity int
	entries  *list.List
	byVPN    map[uint64]*list.Element
}

// Translate looks up the page of the given address. On a hit the entry
// becomes the most recently used and the frame is combined with the
// in-page offset.
func (t *tlbImpl) Translate(vAddr uint64) (uint64, bool) {
	elem, found := t.byVPN[vm.VPN(vAddr)]
	if !found {
		return 0, false
	}

	t.entries.MoveToFront(elem)
	entry := elem.Value.(Entry)

	return uint64(entry.Frame)<<vm.Log2PageSize + vm.Offset(vAddr), true
}

// Add caches a translation, replacing any prior entry for the same page.
// The least recently used entry is dropped when over capacity.
func (t *tlbImpl) Add(vpn uint64, frame vm.Frame) {
	if elem, found := t.byVPN[vpn]; found {
		t.entries.Remove(elem)
		delete(t.byVPN, vpn)
	}

	elem := t.entries.PushFront(Entry{VPN: vpn, Frame: frame})
	t.byVPN[vpn] = elem

	if t.entries.Len() > t.capacity {
		tail := t.entries.Back()
		t.entries.Remove(tail)
		delete(t.byVPN, tail.Value.(Entry).VPN)
	}
}

// Invalidate removes the entry for the given page if present.
func (t *tlbImpl) Invalidate(vpn uint64) {
	elem, found := t.byVPN[vpn]
	if !found {
		return
	}

	t.entries.Remove(elem)
	delete(t.byVPN, vpn)
}

// Flush clears all entries.
func (t *tlbImpl) Flush() {
	t.entries.Init()
	t.byVPN = make(map[uint64]*list.Element)
}

// Len returns the number of cached translations.
func (t *tlbImpl) Len() int {
	return t.entries.Len()
}

// All returns the entries in recency order, most recently used first.
func (t *tlbImpl) All() []Entry {
	entries := make([]Entry, 0, t.entries.Len())
	for elem := t.entries.Front(); elem != nil; elem = elem.Next() {
		entries = append(entries, elem.Value.(Entry))
	}
	return entries
}
