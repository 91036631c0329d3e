package vmm

import "github.com/radiateos/vmcore/vm"

// Stats counts the events observed by a manager since construction.
type Stats struct {
	Allocations        uint64 `json:"allocations"`
	Deallocations      uint64 `json:"deallocations"`
	BytesAllocated     uint64 `json:"bytes_allocated"`
	BytesDeallocated   uint64 `json:"bytes_deallocated"`
	PagesAllocated     uint64 `json:"pages_allocated"`
	PagesDeallocated   uint64 `json:"pages_deallocated"`
	PageFaults         uint64 `json:"page_faults"`
	MajorPageFaults    uint64 `json:"major_page_faults"`
	TLBHits            uint64 `json:"tlb_hits"`
	TLBMisses          uint64 `json:"tlb_misses"`
	SwapIns            uint64 `json:"swap_ins"`
	SwapOuts           uint64 `json:"swap_outs"`
	AllocationFailures uint64 `json:"allocation_failures"`
}

// MemInfo is a point-in-time snapshot of the memory state.
type MemInfo struct {
	TotalPhysical uint64 `json:"total_physical"`
	FreePhysical  uint64 `json:"free_physical"`
	UsedPhysical  uint64 `json:"used_physical"`
	TotalVirtual  uint64 `json:"total_virtual"`
	FreeVirtual   uint64 `json:"free_virtual"`
	SwapTotal     uint64 `json:"swap_total"`
	SwapUsed      uint64 `json:"swap_used"`
	PageSizeBytes uint64 `json:"page_size_bytes"`
	Statistics    Stats  `json:"statistics"`
}

// PageSizeBytes is the page size the manager operates with.
const PageSizeBytes = vm.PageSize
