package vmm

import (
	"github.com/radiateos/vmcore/mem"
	"github.com/radiateos/vmcore/swap"
	"github.com/radiateos/vmcore/vm"
	"github.com/radiateos/vmcore/vm/replacement"
	"github.com/radiateos/vmcore/vm/tlb"
)

// A Builder can build memory managers.
type Builder struct {
	numFrames    uint64
	tlbCapacity  int
	swapCapacity uint64
	victimFinder replacement.VictimFinder
}

// MakeBuilder creates a builder with default parameters: 1024 physical
// frames, a 64-entry translation cache, a 16 MiB swap store, and the LRU
// replacement policy.
func MakeBuilder() Builder {
	return Builder{
		numFrames:    1024,
		tlbCapacity:  64,
		swapCapacity: 4096 * vm.PageSize,
	}
}

// WithNumFrames sets the size of the physical frame pool.
func (b Builder) WithNumFrames(n uint64) Builder {
	b.numFrames = n
	return b
}

// WithTLBCapacity sets the number of entries the translation cache holds.
func (b Builder) WithTLBCapacity(n int) Builder {
	b.tlbCapacity = n
	return b
}

// WithSwapCapacity sets the swap store capacity in bytes.
func (b Builder) WithSwapCapacity(n uint64) Builder {
	b.swapCapacity = n
	return b
}

// WithVictimFinder sets the replacement policy used under memory pressure.
func (b Builder) WithVictimFinder(vf replacement.VictimFinder) Builder {
	b.victimFinder = vf
	return b
}

// WithReplacementAlgorithm selects the replacement policy by name, either
// "lru" or "clock".
func (b Builder) WithReplacementAlgorithm(name string) Builder {
	switch name {
	case "lru":
		b.victimFinder = replacement.NewLRUVictimFinder()
	case "clock":
		b.victimFinder = replacement.NewClockVictimFinder()
	default:
		panic("unknown replacement algorithm " + name)
	}

	return b
}

// Build returns a newly created Manager.
func (b Builder) Build(name string) *Manager {
	if b.numFrames == 0 {
		panic("manager needs at least one physical frame")
	}

	vf := b.victimFinder
	if vf == nil {
		vf = replacement.NewLRUVictimFinder()
	}

	return &Manager{
		name:         name,
		frames:       mem.NewFrameAllocator(b.numFrames),
		storage:      mem.NewStorage(b.numFrames * vm.PageSize),
		addrSpace:    vm.NewAddressSpace(),
		pageTable:    vm.NewPageTable(),
		tlb:          tlb.New(b.tlbCapacity),
		swapStore:    swap.NewStore(b.swapCapacity),
		victimFinder: vf,
	}
}
