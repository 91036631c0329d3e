package datarecording

import (
	"time"

	"github.com/radiateos/vmcore/vmm"
)

// A StatSnapshot row captures one manager's counters at a point in time.
type StatSnapshot struct {
	Time               string
	Manager            string
	FreePhysical       uint64
	UsedPhysical       uint64
	SwapUsed           uint64
	Allocations        uint64
	Deallocations      uint64
	PageFaults         uint64
	MajorPageFaults    uint64
	TLBHits            uint64
	TLBMisses          uint64
	SwapIns            uint64
	SwapOuts           uint64
	AllocationFailures uint64
}

// A MemTrace periodically snapshots manager statistics into a recorder.
type MemTrace struct {
	tableName string
	recorder  DataRecorder
}

// NewMemTrace creates a trace writing to the given recorder.
func NewMemTrace(recorder DataRecorder) *MemTrace {
	t := &MemTrace{
		tableName: "stat_snapshots",
		recorder:  recorder,
	}

	t.recorder.CreateTable(t.tableName, StatSnapshot{})

	return t
}

// Snapshot records the current state of a manager.
func (t *MemTrace) Snapshot(m *vmm.Manager) {
	info := m.MemInfo()
	s := info.Statistics

	t.recorder.InsertData(t.tableName, StatSnapshot{
		Time:               time.Now().Format("2006-01-02 15:04:05.000000000"),
		Manager:            m.Name(),
		FreePhysical:       info.FreePhysical,
		UsedPhysical:       info.UsedPhysical,
		SwapUsed:           info.SwapUsed,
		Allocations:        s.Allocations,
		Deallocations:      s.Deallocations,
		PageFaults:         s.PageFaults,
		MajorPageFaults:    s.MajorPageFaults,
		TLBHits:            s.TLBHits,
		TLBMisses:          s.TLBMisses,
		SwapIns:            s.SwapIns,
		SwapOuts:           s.SwapOuts,
		AllocationFailures: s.AllocationFailures,
	})
}

// Close flushes buffered snapshots.
func (t *MemTrace) Close() {
	t.recorder.Flush()
}
