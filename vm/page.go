// Package vm provides the core types for virtual memory management,
// including the page table and the virtual address space allocator.
package vm

// Memory layout constants. The address space is modeled at 48 bits with
// 4096-byte pages.
const (
	Log2PageSize = 12
	PageSize     = uint64(1) << Log2PageSize
	OffsetMask   = PageSize - 1

	AddressBits  = 48
	AddressLimit = uint64(1) << AddressBits
	NumPages     = AddressLimit >> Log2PageSize
)

// A Frame is an index into the physical frame pool.
type Frame uint64

// VPN extracts the virtual page number from a virtual address.
func VPN(vAddr uint64) uint64 {
	return vAddr >> Log2PageSize
}

// Offset extracts the in-page offset from a virtual address.
func Offset(vAddr uint64) uint64 {
	return vAddr & OffsetMask
}

// PageAlign rounds an address down to the start of its page.
func PageAlign(vAddr uint64) uint64 {
	return (vAddr >> Log2PageSize) << Log2PageSize
}

// PageCount returns the number of pages needed to hold sizeBytes.
func PageCount(sizeBytes uint64) uint64 {
	return (sizeBytes + PageSize - 1) >> Log2PageSize
}

// A Page is an entry in the page table, maintaining the information about how
// to translate a virtual page to a physical frame. A Page exists in the table
// iff the page is resident.
type Page struct {
	VPN        uint64
	Frame      Frame
	Present    bool
	Writable   bool
	Executable bool
	User       bool
	Accessed   bool
	Dirty      bool
}

// PhysicalAddress combines the frame with an in-page offset.
func (p Page) PhysicalAddress(offset uint64) uint64 {
	return uint64(p.Frame)<<Log2PageSize + offset
}
