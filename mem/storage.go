// Package mem provides the physical side of the memory manager: the frame
// pool and the byte storage backing it.
package mem

import (
	"errors"

	"github.com/radiateos/vmcore/vm"
)

// A Storage keeps the bytes held by the physical frames.
//
// The storage is managed in page-sized units. Units that are never touched
// by Read or Write take no space.
type Storage struct {
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the storage capacity in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unit(pAddr uint64) ([]byte, error) {
	if pAddr >= s.capacity {
		return nil, errors.New("physical address beyond the storage capacity")
	}

	base := vm.PageAlign(pAddr)
	unit, ok := s.data[base]
	if !ok {
		unit = make([]byte, vm.PageSize)
		s.data[base] = unit
	}

	return unit, nil
}

// Read returns n bytes starting at the given physical address. The range may
// span unit boundaries.
func (s *Storage) Read(pAddr, n uint64) ([]byte, error) {
	res := make([]byte, n)
	offset := uint64(0)

	for offset < n {
		unit, err := s.unit(pAddr + offset)
		if err != nil {
			return nil, err
		}

		inUnit := vm.Offset(pAddr + offset)
		chunk := vm.PageSize - inUnit
		if n-offset < chunk {
			chunk = n - offset
		}

		copy(res[offset:offset+chunk], unit[inUnit:inUnit+chunk])
		offset += chunk
	}

	return res, nil
}

// Write stores data starting at the given physical address. The range may
// span unit boundaries.
func (s *Storage) Write(pAddr uint64, data []byte) error {
	offset := uint64(0)

	for offset < uint64(len(data)) {
		unit, err := s.unit(pAddr + offset)
		if err != nil {
			return err
		}

		inUnit := vm.Offset(pAddr + offset)
		chunk := vm.PageSize - inUnit
		if uint64(len(data))-offset < chunk {
			chunk = uint64(len(data)) - offset
		}

		copy(unit[inUnit:inUnit+chunk], data[offset:offset+chunk])
		offset += chunk
	}

	return nil
}
