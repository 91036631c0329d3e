// Package swap provides the store that backs evicted pages. The store is an
// in-memory stand-in for durable swap storage.
package swap

import (
	"errors"

	"github.com/radiateos/vmcore/vm"
)

// ErrSwapFull is returned when writing out a page would exceed the store
// capacity.
var ErrSwapFull = errors.New("swap store is full")

// A Page holds the bytes and protection of an evicted page.
type Page struct {
	VPN        uint64
	Data       []byte
	Writable   bool
	Executable bool
	User       bool
}

// A Store keeps at most one swapped page per virtual page number. Pages are
// consumed when read back in.
type Store struct {
	capacity uint64
	pages    map[uint64]Page
}

// NewStore creates a store with the given capacity in bytes.
func NewStore(capacity uint64) *Store {
	return &Store{
		capacity: capacity,
		pages:    make(map[uint64]Page),
	}
}

// WriteOut stores a page, overwriting any prior page for the same VPN.
// It fails with ErrSwapFull when the store is at capacity and the VPN is
// not already present.
func (s *Store) WriteOut(page Page) error {
	if _, present := s.pages[page.VPN]; !present {
		if s.Used()+vm.PageSize > s.capacity {
			return ErrSwapFull
		}
	}

	s.pages[page.VPN] = page
	return nil
}

// ReadIn removes and returns the page for the given VPN. The bool return
// value is false when no page is stored for it.
func (s *Store) ReadIn(vpn uint64) (Page, bool) {
	page, found := s.pages[vpn]
	if !found {
		return Page{}, false
	}

	delete(s.pages, vpn)
	return page, true
}

// Contains reports whether a page is stored for the given VPN.
func (s *Store) Contains(vpn uint64) bool {
	_, found := s.pages[vpn]
	return found
}

// Used returns the bytes currently held by the store.
func (s *Store) Used() uint64 {
	return uint64(len(s.pages)) * vm.PageSize
}

// Capacity returns the store capacity in bytes.
func (s *Store) Capacity() uint64 {
	return s.capacity
}

// Len returns the number of stored pages.
func (s *Store) Len() int {
	return len(s.pages)
}
