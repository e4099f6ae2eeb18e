// Package bus routes code and data accesses to whichever backing
// region (RAM, a peripheral) claims the address, generalizing a
// single embedded memory array into addressable regions.
package bus

import "fmt"

// CodeMemory and DataMemory mirror core.CodeMemory/core.DataMemory so
// this package stays free of a direct dependency on core; *Bus itself
// satisfies both.
type CodeMemory interface {
	ReadCode(addr uint64) (uint32, error)
}

type DataMemory interface {
	ReadData(addr uint64, size int) (uint64, error)
	WriteData(addr uint64, value uint64, size int) error
}

// region is one mapped address range, [Base, Base+Size).
type region struct {
	base uint64
	size uint64
	code CodeMemory
	data DataMemory
}

func (r region) contains(addr uint64) bool {
	return addr >= r.base && addr < r.base+r.size
}

// Bus is an ordered list of mapped regions. The first region whose
// range contains the address wins; overlapping regions are resolved
// by map order, matching Map's call order.
type Bus struct {
	regions []region
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Map registers a region backed by both a code and a data port at
// [base, base+size). Use MapData for a peripheral that only answers
// data accesses (the common case: peripherals are not executable).
func (b *Bus) Map(base, size uint64, code CodeMemory, data DataMemory) {
	b.regions = append(b.regions, region{base: base, size: size, code: code, data: data})
}

// MapData registers a data-only region, such as a peripheral.
func (b *Bus) MapData(base, size uint64, data DataMemory) {
	b.regions = append(b.regions, region{base: base, size: size, data: data})
}

func (b *Bus) find(addr uint64) (region, error) {
	for _, r := range b.regions {
		if r.contains(addr) {
			return r, nil
		}
	}
	return region{}, fmt.Errorf("bus: no region mapped at address 0x%x", addr)
}

// ReadCode implements core.CodeMemory.
func (b *Bus) ReadCode(addr uint64) (uint32, error) {
	r, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	if r.code == nil {
		return 0, fmt.Errorf("bus: region at 0x%x is not executable", addr)
	}
	return r.code.ReadCode(addr)
}

// ReadData implements core.DataMemory.
func (b *Bus) ReadData(addr uint64, size int) (uint64, error) {
	r, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	if r.data == nil {
		return 0, fmt.Errorf("bus: region at 0x%x has no data port", addr)
	}
	return r.data.ReadData(addr, size)
}

// WriteData implements core.DataMemory.
func (b *Bus) WriteData(addr uint64, value uint64, size int) error {
	r, err := b.find(addr)
	if err != nil {
		return err
	}
	if r.data == nil {
		return fmt.Errorf("bus: region at 0x%x has no data port", addr)
	}
	return r.data.WriteData(addr, value, size)
}
