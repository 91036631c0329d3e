package vmm

import "errors"

// Errors surfaced by the manager. Transient physical-memory pressure is
// absorbed internally through eviction and never surfaces unless eviction
// itself cannot produce a frame.
var (
	// ErrAllocationFailed reports address-space exhaustion, or physical
	// exhaustion with no evictable victim.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrPermissionDenied reports a write to a non-writable mapping.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFault reports an access to an address with no page-table entry and
	// no swap-backed data. The manager never terminates a caller; acting on
	// a fault belongs to the layer consuming it.
	ErrFault = errors.New("page fault")
)
