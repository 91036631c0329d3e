package vm

import "sort"

// A Region is a contiguous range of allocated virtual pages.
type Region struct {
	Start     uint64
	PageCount uint64
}

// End returns the first address after the region.
func (r Region) End() uint64 {
	return r.Start + r.PageCount*PageSize
}

// An AddressSpace tracks the allocated regions of the single virtual address
// space and finds gaps for new regions. Page 0 is a guard page and is never
// handed out.
type AddressSpace struct {
	regions []Region
	sorted  bool
}

// NewAddressSpace creates an empty AddressSpace.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{}
}

// FindFreeRegion reserves the first gap that fits pageCount pages, searching
// in start-address order. The bool return value is false when the address
// space is exhausted.
func (as *AddressSpace) FindFreeRegion(pageCount uint64) (uint64, bool) {
	if pageCount == 0 {
		panic("page count must be positive")
	}

	// The guard page alone makes a full-space region impossible, and
	// anything larger would overflow the size arithmetic below.
	if pageCount >= NumPages {
		return 0, false
	}

	as.sortRegions()

	size := pageCount * PageSize
	candidate := PageSize // skip the guard page
	for _, r := range as.regions {
		if r.Start-candidate >= size {
			break
		}

		if r.End() > candidate {
			candidate = r.End()
		}
	}

	if candidate+size > AddressLimit {
		return 0, false
	}

	as.regions = append(as.regions, Region{Start: candidate, PageCount: pageCount})
	as.sorted = false

	return candidate, true
}

// FreeRegion releases the region starting at the given address. Freeing an
// address that starts no region is a no-op.
func (as *AddressSpace) FreeRegion(start uint64) {
	for i, r := range as.regions {
		if r.Start == start {
			as.regions = append(as.regions[:i], as.regions[i+1:]...)
			return
		}
	}
}

// FindRegion returns the region that starts at the given address.
func (as *AddressSpace) FindRegion(start uint64) (Region, bool) {
	for _, r := range as.regions {
		if r.Start == start {
			return r, true
		}
	}
	return Region{}, false
}

// AllocatedPages returns the total number of pages held by regions.
func (as *AddressSpace) AllocatedPages() uint64 {
	total := uint64(0)
	for _, r := range as.regions {
		total += r.PageCount
	}
	return total
}

func (as *AddressSpace) sortRegions() {
	if as.sorted {
		return
	}

	sort.Slice(as.regions, func(i, j int) bool {
		return as.regions[i].Start < as.regions[j].Start
	})
	as.sorted = true
}
