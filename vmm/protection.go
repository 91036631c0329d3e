package vmm

// Protection describes the access rights of a mapping.
type Protection uint32

// Protection bits. A mapping without ProtUser is a kernel mapping.
const (
	ProtRead Protection = 1 << iota
	ProtWrite
	ProtExec
	ProtUser
)

// MapFlags carries the mmap flags. The core models one global anonymous
// address space, so the flags only select protection behavior; there are no
// distinct shared/file-backed semantics.
type MapFlags uint32

// Mapping flags.
const (
	MapShared MapFlags = 1 << iota
	MapPrivate
	MapAnonymous
	MapFixed
)
