package vm

import (
	"sort"
	"sync"
)

// A PageTable holds the list of resident pages.
type PageTable interface {
	Insert(page Page)
	Remove(vpn uint64)
	Find(vpn uint64) (Page, bool)
	Update(page Page)
	All() []Page
	Len() int
}

// NewPageTable creates a new PageTable.
func NewPageTable() PageTable {
	return &pageTableImpl{
		entries: make(map[uint64]Page),
	}
}

// pageTableImpl is the default implementation of a PageTable. It carries its
// own lock so that snapshots can be taken while the manager's coarse lock is
// held by another operation; the manager lock may acquire this lock, never
// the other way around.
type pageTableImpl struct {
	sync.Mutex
	entries map[uint64]Page
}

// Insert puts a new page into the PageTable.
func (pt *pageTableImpl) Insert(page Page) {
	pt.Lock()
	defer pt.Unlock()

	pt.pageMustNotExist(page.VPN)
	pt.entries[page.VPN] = page
}

// Remove removes the entry for the given virtual page number.
func (pt *pageTableImpl) Remove(vpn uint64) {
	pt.Lock()
	defer pt.Unlock()

	pt.pageMustExist(vpn)
	delete(pt.entries, vpn)
}

// Find returns the page for the given virtual page number. The bool return
// value indicates if the page is found or not.
func (pt *pageTableImpl) Find(vpn uint64) (Page, bool) {
	pt.Lock()
	defer pt.Unlock()

	page, found := pt.entries[vpn]
	return page, found
}

// Update changes the fields of an existing page. The VPN field is used to
// locate the page to update.
func (pt *pageTableImpl) Update(page Page) {
	pt.Lock()
	defer pt.Unlock()

	pt.pageMustExist(page.VPN)
	pt.entries[page.VPN] = page
}

// All returns a snapshot of all the entries, ordered by virtual page number.
func (pt *pageTableImpl) All() []Page {
	pt.Lock()
	defer pt.Unlock()

	pages := make([]Page, 0, len(pt.entries))
	for _, page := range pt.entries {
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].VPN < pages[j].VPN
	})

	return pages
}

// Len returns the number of resident pages.
func (pt *pageTableImpl) Len() int {
	pt.Lock()
	defer pt.Unlock()

	return len(pt.entries)
}

func (pt *pageTableImpl) pageMustExist(vpn uint64) {
	_, found := pt.entries[vpn]
	if !found {
		panic("page does not exist")
	}
}

func (pt *pageTableImpl) pageMustNotExist(vpn uint64) {
	_, found := pt.entries[vpn]
	if found {
		panic("page exist")
	}
}
