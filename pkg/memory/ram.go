// Package memory implements a flat byte-addressable RAM, the
// backing store for the portion of the address space that isn't a
// peripheral.
package memory

import (
	"encoding/binary"
	"fmt"
)

// RAM is a flat, byte-addressable memory region starting at Base and
// extending for len(bytes) bytes. It implements both core.CodeMemory
// and core.DataMemory.
type RAM struct {
	Base  uint64
	bytes []byte
}

// New allocates a zeroed RAM of the given size mapped starting at
// base.
func New(base uint64, size uint64) *RAM {
	return &RAM{Base: base, bytes: make([]byte, size)}
}

// Size returns the number of bytes backing the region.
func (r *RAM) Size() uint64 { return uint64(len(r.bytes)) }

// Top returns the address one past the end of the region.
func (r *RAM) Top() uint64 { return r.Base + r.Size() }

func (r *RAM) offset(addr uint64, size int) (int, error) {
	if addr < r.Base {
		return 0, fmt.Errorf("memory: address 0x%x below base 0x%x", addr, r.Base)
	}
	off := addr - r.Base
	if off+uint64(size) > r.Size() {
		return 0, fmt.Errorf("memory: address 0x%x+%d out of range (size 0x%x)", addr, size, r.Size())
	}
	return int(off), nil
}

// ReadCode implements core.CodeMemory: a little-endian 32-bit fetch at
// addr, which need not be 4-byte aligned (compressed code units are
// only 2-byte aligned).
func (r *RAM) ReadCode(addr uint64) (uint32, error) {
	off, err := r.offset(addr, 4)
	if err != nil {
		// A fetch straddling the end of RAM by 2 bytes is legal when the
		// last code unit is compressed; fall back to a 16-bit read.
		if off16, err16 := r.offset(addr, 2); err16 == nil {
			return uint32(binary.LittleEndian.Uint16(r.bytes[off16:])), nil
		}
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.bytes[off:]), nil
}

// ReadData implements core.DataMemory.
func (r *RAM) ReadData(addr uint64, size int) (uint64, error) {
	off, err := r.offset(addr, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(r.bytes[off]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(r.bytes[off:])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(r.bytes[off:])), nil
	default:
		return 0, fmt.Errorf("memory: unsupported access size %d", size)
	}
}

// WriteData implements core.DataMemory.
func (r *RAM) WriteData(addr uint64, value uint64, size int) error {
	off, err := r.offset(addr, size)
	if err != nil {
		return err
	}
	switch size {
	case 1:
		r.bytes[off] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(r.bytes[off:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(r.bytes[off:], uint32(value))
	default:
		return fmt.Errorf("memory: unsupported access size %d", size)
	}
	return nil
}

// LoadAt copies data into the RAM starting at addr, for program
// loading.
func (r *RAM) LoadAt(addr uint64, data []byte) error {
	off, err := r.offset(addr, len(data))
	if err != nil {
		return err
	}
	copy(r.bytes[off:], data)
	return nil
}

// Bytes exposes the backing store directly, for tests and direct
// inspection of RAM contents.
func (r *RAM) Bytes() []byte { return r.bytes }
