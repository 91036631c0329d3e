package mem

import "github.com/radiateos/vmcore/vm"

// A FrameAllocator hands out frames from a fixed pool. It never evicts or
// blocks; when the pool is empty the caller is responsible for reclaiming a
// frame first.
type FrameAllocator struct {
	numFrames uint64
	freeList  []vm.Frame
}

// NewFrameAllocator creates an allocator with all numFrames frames free.
func NewFrameAllocator(numFrames uint64) *FrameAllocator {
	a := &FrameAllocator{
		numFrames: numFrames,
		freeList:  make([]vm.Frame, 0, numFrames),
	}

	for i := numFrames; i > 0; i-- {
		a.freeList = append(a.freeList, vm.Frame(i-1))
	}

	return a
}

// Allocate pops a free frame. The bool return value is false when the pool
// is exhausted.
func (a *FrameAllocator) Allocate() (vm.Frame, bool) {
	if len(a.freeList) == 0 {
		return 0, false
	}

	frame := a.freeList[len(a.freeList)-1]
	a.freeList = a.freeList[:len(a.freeList)-1]

	return frame, true
}

// Free returns a frame to the pool.
func (a *FrameAllocator) Free(frame vm.Frame) {
	if uint64(frame) >= a.numFrames {
		panic("frame out of range")
	}

	a.freeList = append(a.freeList, frame)
}

// NumFrames returns the pool size.
func (a *FrameAllocator) NumFrames() uint64 {
	return a.numFrames
}

// NumFree returns the number of free frames.
func (a *FrameAllocator) NumFree() uint64 {
	return uint64(len(a.freeList))
}
