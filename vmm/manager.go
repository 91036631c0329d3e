// Package vmm provides the memory manager facade that orchestrates the
// frame pool, the address space, the page table, the translation cache, the
// replacement policy, and the swap store.
package vmm

import (
	"fmt"
	"sync"

	"github.com/radiateos/vmcore/mem"
	"github.com/radiateos/vmcore/swap"
	"github.com/radiateos/vmcore/vm"
	"github.com/radiateos/vmcore/vm/replacement"
	"github.com/radiateos/vmcore/vm/tlb"
)

// A Manager is a single-address-space virtual memory manager. All its
// operations run under one coarse lock, so they are fully serialized per
// instance. The page table carries its own lock, which lets diagnostic
// snapshots proceed while an operation holds the coarse lock; the coarse
// lock may acquire the page-table lock, never the reverse.
type Manager struct {
	name string

	mu sync.Mutex

	frames       *mem.FrameAllocator
	storage      *mem.Storage
	addrSpace    *vm.AddressSpace
	pageTable    vm.PageTable
	tlb          tlb.TLB
	swapStore    *swap.Store
	victimFinder replacement.VictimFinder

	stats Stats
}

// Name returns the name the manager was built with.
func (m *Manager) Name() string {
	return m.name
}

// Allocate reserves a region of sizeBytes, materializes a frame for each of
// its pages, and installs the page-table entries. On exhaustion it evicts
// resident pages through the replacement policy; if no frame can be produced
// it rolls back every page installed by this call, releases the region, and
// fails with ErrAllocationFailed.
func (m *Manager) Allocate(sizeBytes uint64, prot Protection) (uint64, error) {
	if sizeBytes == 0 {
		panic("allocation size must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Sizes at or beyond the address limit can never fit and would wrap
	// the page-count arithmetic.
	if sizeBytes >= vm.AddressLimit {
		m.stats.AllocationFailures++
		return 0, fmt.Errorf("%w: size exceeds the address space", ErrAllocationFailed)
	}

	pages := vm.PageCount(sizeBytes)

	start, ok := m.addrSpace.FindFreeRegion(pages)
	if !ok {
		m.stats.AllocationFailures++
		return 0, fmt.Errorf("%w: address space exhausted", ErrAllocationFailed)
	}

	for i := uint64(0); i < pages; i++ {
		frame, ok := m.acquireFrame()
		if !ok {
			m.rollback(start, i)
			m.addrSpace.FreeRegion(start)
			m.stats.AllocationFailures++
			return 0, fmt.Errorf("%w: out of physical frames", ErrAllocationFailed)
		}

		m.pageTable.Insert(vm.Page{
			VPN:        vm.VPN(start) + i,
			Frame:      frame,
			Present:    true,
			Writable:   prot&ProtWrite != 0,
			Executable: prot&ProtExec != 0,
			User:       prot&ProtUser != 0,
		})
	}

	m.stats.Allocations++
	m.stats.BytesAllocated += sizeBytes
	m.stats.PagesAllocated += pages

	return start, nil
}

// Deallocate releases the pages covering [addr, addr+sizeBytes). Pages
// without a page-table entry are skipped silently; the virtual region is
// released unconditionally.
func (m *Manager) Deallocate(addr uint64, sizeBytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pages := vm.PageCount(sizeBytes)
	freed := uint64(0)

	for i := uint64(0); i < pages; i++ {
		vpn := vm.VPN(addr) + i

		page, found := m.pageTable.Find(vpn)
		if !found {
			continue
		}

		m.scrubFrame(page.Frame)
		m.frames.Free(page.Frame)
		m.pageTable.Remove(vpn)
		m.tlb.Invalidate(vpn)
		freed++
	}

	m.addrSpace.FreeRegion(vm.PageAlign(addr))

	m.stats.Deallocations++
	m.stats.BytesDeallocated += sizeBytes
	m.stats.PagesDeallocated += freed
}

// Read returns sizeBytes bytes starting at addr. Each covered page is
// translated through the TLB, falling back to the page table and then to
// one fault-service-and-retry cycle; a second translation failure
// propagates as ErrFault.
func (m *Manager) Read(addr uint64, sizeBytes uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]byte, 0, sizeBytes)

	for sizeBytes > 0 {
		chunk := vm.PageSize - vm.Offset(addr)
		if sizeBytes < chunk {
			chunk = sizeBytes
		}

		pAddr, err := m.translate(addr, false)
		if err != nil {
			return nil, err
		}

		data, err := m.storage.Read(pAddr, chunk)
		if err != nil {
			return nil, err
		}

		res = append(res, data...)
		addr += chunk
		sizeBytes -= chunk
	}

	return res, nil
}

// Write stores data starting at addr. The translation path is the same as
// Read, with a writability check before any byte of a page is mutated; a
// successful page write sets the accessed and dirty bits.
func (m *Manager) Write(addr uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(data) > 0 {
		chunk := vm.PageSize - vm.Offset(addr)
		if uint64(len(data)) < chunk {
			chunk = uint64(len(data))
		}

		pAddr, err := m.translate(addr, true)
		if err != nil {
			return err
		}

		if err := m.storage.Write(pAddr, data[:chunk]); err != nil {
			return err
		}

		addr += chunk
		data = data[chunk:]
	}

	return nil
}

// translate resolves one address under the coarse lock, running at most one
// fault-service-and-retry cycle. For writes it rejects non-writable
// mappings before reporting a physical address, and marks the page dirty.
func (m *Manager) translate(vAddr uint64, write bool) (uint64, error) {
	vpn := vm.VPN(vAddr)

	for attempt := 0; attempt < 2; attempt++ {
		if pAddr, hit := m.tlb.Translate(vAddr); hit {
			page, found := m.pageTable.Find(vpn)
			if found {
				m.stats.TLBHits++

				if write {
					if !page.Writable {
						return 0, fmt.Errorf("%w: address %#x", ErrPermissionDenied, vAddr)
					}
					page.Accessed = true
					page.Dirty = true
					m.pageTable.Update(page)
				}

				return pAddr, nil
			}

			// The cache held a translation for a page that is gone.
			m.tlb.Invalidate(vpn)
		}

		m.stats.TLBMisses++

		if page, found := m.pageTable.Find(vpn); found {
			if write && !page.Writable {
				return 0, fmt.Errorf("%w: address %#x", ErrPermissionDenied, vAddr)
			}

			m.tlb.Add(vpn, page.Frame)

			page.Accessed = true
			if write {
				page.Dirty = true
			}
			m.pageTable.Update(page)

			return page.PhysicalAddress(vm.Offset(vAddr)), nil
		}

		if attempt > 0 {
			break
		}

		m.stats.PageFaults++
		if !m.servicePageFault(vAddr) {
			return 0, fmt.Errorf("%w: no mapping for address %#x", ErrFault, vAddr)
		}
	}

	return 0, fmt.Errorf("%w: translation failed for address %#x", ErrFault, vAddr)
}

// HandlePageFault tries to resolve a fault on the given address from the
// swap store. It reports false on a major fault, an access with neither a
// page-table entry nor swap-backed data, leaving all state unchanged.
func (m *Manager) HandlePageFault(vAddr uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.PageFaults++
	return m.servicePageFault(vAddr)
}

func (m *Manager) servicePageFault(vAddr uint64) bool {
	vpn := vm.VPN(vAddr)

	if !m.swapStore.Contains(vpn) {
		m.stats.MajorPageFaults++
		return false
	}

	frame, ok := m.acquireFrame()
	if !ok {
		return false
	}

	page, _ := m.swapStore.ReadIn(vpn)
	m.stats.SwapIns++

	if err := m.storage.Write(uint64(frame)<<vm.Log2PageSize, page.Data); err != nil {
		m.frames.Free(frame)
		return false
	}

	// The swap entry was consumed, so the in-memory copy is now the only
	// one. The page stays dirty so a later eviction writes it back out.
	m.pageTable.Insert(vm.Page{
		VPN:        vpn,
		Frame:      frame,
		Present:    true,
		Writable:   page.Writable,
		Executable: page.Executable,
		User:       page.User,
		Accessed:   true,
		Dirty:      true,
	})
	m.tlb.Add(vpn, frame)

	return true
}

// acquireFrame produces a frame, evicting a victim when the pool is
// exhausted. A dirty victim is written to the swap store before its frame
// is reclaimed; a clean victim is dropped. The bool return value is false
// when no frame can be produced.
func (m *Manager) acquireFrame() (vm.Frame, bool) {
	if frame, ok := m.frames.Allocate(); ok {
		return frame, true
	}

	victim, ok := m.victimFinder.FindVictim(m.pageTable)
	if !ok {
		return 0, false
	}

	if victim.Dirty {
		data, err := m.storage.Read(victim.PhysicalAddress(0), vm.PageSize)
		if err != nil {
			return 0, false
		}

		err = m.swapStore.WriteOut(swap.Page{
			VPN:        victim.VPN,
			Data:       data,
			Writable:   victim.Writable,
			Executable: victim.Executable,
			User:       victim.User,
		})
		if err != nil {
			return 0, false
		}

		m.stats.SwapOuts++
	}

	m.pageTable.Remove(victim.VPN)
	m.tlb.Invalidate(victim.VPN)

	// The reclaimed frame must not leak the victim's bytes to its next owner.
	m.scrubFrame(victim.Frame)

	return victim.Frame, true
}

// scrubFrame zeroes a frame's bytes. Every frame that leaves a mapping goes
// through here, so its next owner never observes the previous content.
func (m *Manager) scrubFrame(frame vm.Frame) {
	err := m.storage.Write(uint64(frame)<<vm.Log2PageSize, make([]byte, vm.PageSize))
	if err != nil {
		panic(err)
	}
}

// rollback undoes the first installed pages of an allocation that cannot be
// completed.
func (m *Manager) rollback(start uint64, installed uint64) {
	for i := uint64(0); i < installed; i++ {
		vpn := vm.VPN(start) + i

		page, found := m.pageTable.Find(vpn)
		if !found {
			// Already evicted while the same allocation was still being
			// filled in; the frame moved on with the victim.
			continue
		}

		m.scrubFrame(page.Frame)
		m.frames.Free(page.Frame)
		m.pageTable.Remove(vpn)
		m.tlb.Invalidate(vpn)
	}
}

// Mmap is a thin translator onto Allocate. The bool return value is false
// when the allocation fails.
func (m *Manager) Mmap(
	sizeBytes uint64,
	prot Protection,
	flags MapFlags,
) (uint64, bool) {
	_ = flags // one global anonymous space; the flags select no behavior

	addr, err := m.Allocate(sizeBytes, prot)
	if err != nil {
		return 0, false
	}

	return addr, true
}

// Munmap is a thin translator onto Deallocate.
func (m *Manager) Munmap(addr uint64, sizeBytes uint64) {
	m.Deallocate(addr, sizeBytes)
}

// Flush drops all cached translations. Intended for the teardown caller on
// shutdown.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tlb.Flush()
}

// MemInfo returns a snapshot of the physical, virtual, and swap usage
// together with the statistics counters.
func (m *Manager) MemInfo() MemInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.frames.NumFrames() * vm.PageSize
	free := m.frames.NumFree() * vm.PageSize

	return MemInfo{
		TotalPhysical: total,
		FreePhysical:  free,
		UsedPhysical:  total - free,
		TotalVirtual:  vm.AddressLimit,
		FreeVirtual:   vm.AddressLimit - (m.addrSpace.AllocatedPages()+1)*vm.PageSize, // page 0 is the guard page
		SwapTotal:     m.swapStore.Capacity(),
		SwapUsed:      m.swapStore.Used(),
		PageSizeBytes: vm.PageSize,
		Statistics:    m.stats,
	}
}

// Stats returns a copy of the statistics counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

// PageTableSnapshot returns the resident pages. It relies on the page
// table's own lock only, so it can run while another operation holds the
// coarse lock.
func (m *Manager) PageTableSnapshot() []vm.Page {
	return m.pageTable.All()
}
