// Package core contains the RISC-V instruction-set simulator core.
//
// The core is parametric in a word width XLen of 32 or 64 bits. Every
// register, the PC, and every CSR use an unsigned XLen-bit carrier;
// signed semantics are produced by explicit reinterpretation at the
// point of use, never by storing a signed type.
//
// A Core does not know how to read or write memory on its own: it is
// constructed against a Code and a Data port (see ports.go) and a
// collaborator wires in whatever backs those ports (flat RAM, a bus
// router, peripherals), so the core can sit behind a routed bus with
// memory-mapped devices rather than owning a memory array directly.
package core

import "fmt"

// XLen is the native register width, in bits.
type XLen int

const (
	XLen32 XLen = 32
	XLen64 XLen = 64
)

// NumRegisters is the number of general purpose registers. x0 is
// hard-wired to zero: writes are dropped, reads yield 0.
const NumRegisters = 32

// Counters tracks the core's performance counters: monotonic counts
// of data-memory reads/writes, code-memory reads, register
// reads/writes, and instructions retired.
type Counters struct {
	DataReads   uint64
	DataWrites  uint64
	CodeReads   uint64
	RegReads    uint64
	RegWrites   uint64
	InstRetired uint64
}

// Core is a single RISC-V hart. A Core is not goroutine safe; a single
// goroutine (the step loop) should drive it. External producers (the
// interrupt line, a debug stub) write into the small slots documented
// on RequestInterrupt and SetBreakpoint, which are safe to call from
// another goroutine.
type Core struct {
	XLen XLen

	gpr [NumRegisters]uint64
	pc  uint64
	csr [4096]uint64

	Code CodeMemory
	Data DataMemory

	reservationValid bool
	reservationAddr  uint64

	Perf Counters

	// Ticks is the number of simulated nanoseconds elapsed; it backs
	// the cycle/time CSR aliases, synthesised from simulated elapsed
	// ticks at 1 ns resolution.
	Ticks uint64

	interruptPending bool
	interruptCause   uint64
	irqAlreadyLow    bool

	breakpoints map[uint64]bool

	// QuirksFenceHalt reproduces a legacy test-harness shortcut: a
	// fence immediately followed by the literal encoding 0x00000073
	// stops the simulation. Off by default.
	QuirksFenceHalt bool
}

// New builds a Core with the given width, starting PC, and memory
// ports. Registers are zeroed, x2 (sp) is set to ramTop minus one
// word, and misa is
// initialized to advertise I+M+A+C at the correct MXL.
func New(xlen XLen, startPC uint64, code CodeMemory, data DataMemory, ramTop uint64) *Core {
	c := &Core{
		XLen:        xlen,
		Code:        code,
		Data:        data,
		breakpoints: make(map[uint64]bool),
	}
	c.pc = c.mask(startPC)
	wordSize := uint64(4)
	if xlen == XLen64 {
		wordSize = 8
	}
	c.gpr[2] = c.mask(ramTop - wordSize)
	c.csr[CSRMisa] = c.misaResetValue()
	return c
}

func (c *Core) mask(v uint64) uint64 {
	if c.XLen == XLen32 {
		return v & 0xFFFFFFFF
	}
	return v
}

// Reg reads general purpose register i (0..31). x0 always reads 0.
func (c *Core) Reg(i int) uint64 {
	c.Perf.RegReads++
	if i == 0 {
		return 0
	}
	return c.gpr[i]
}

// SetReg writes general purpose register i. Writes to x0 are dropped.
func (c *Core) SetReg(i int, v uint64) {
	c.Perf.RegWrites++
	if i == 0 {
		return
	}
	c.gpr[i] = c.mask(v)
}

// PC returns the program counter.
func (c *Core) PC() uint64 { return c.pc }

// SetPC sets the program counter.
func (c *Core) SetPC(v uint64) { c.pc = c.mask(v) }

// SignedReg reinterprets register i as a signed XLen-bit value.
func (c *Core) SignedReg(i int) int64 {
	v := c.Reg(i)
	if c.XLen == XLen32 {
		return int64(int32(v))
	}
	return int64(v)
}

// String renders the core state for tracing, dumping every register
// alongside the PC and retirement count.
func (c *Core) String() string {
	return fmt.Sprintf("{PC:0x%x GPR:%+v XLen:%d instret:%d}", c.pc, c.gpr, c.XLen, c.Perf.InstRetired)
}

// RequestInterrupt is called by an external collaborator (the timer
// device, a debug stub) to raise the single interrupt input with the
// supplied cause code. Safe to call from another goroutine; the step
// loop observes it between instructions.
func (c *Core) RequestInterrupt(cause uint64) {
	c.interruptPending = true
	c.interruptCause = cause
}

// ClearInterruptLine drops the external interrupt request line.
func (c *Core) ClearInterruptLine() {
	c.interruptPending = false
}

// SetBreakpoint/ClearBreakpoint/HasBreakpoint manage the breakpoint
// set consulted by the step loop's "breakpoint hit" return, used by a
// debug collaborator.
func (c *Core) SetBreakpoint(addr uint64) { c.breakpoints[addr] = true }

func (c *Core) ClearBreakpoint(addr uint64) { delete(c.breakpoints, addr) }

func (c *Core) HasBreakpoint(addr uint64) bool { return c.breakpoints[addr] }

// DumpRange returns a copy of the data-memory range [start, end) for
// the signature-dump exit channel, reading through the Data port
// one byte at a time.
func (c *Core) DumpRange(start, end uint64) ([]byte, error) {
	if end < start {
		return nil, fmt.Errorf("core: dump range end 0x%x before start 0x%x", end, start)
	}
	out := make([]byte, 0, end-start)
	for addr := start; addr < end; addr++ {
		v, err := c.Data.ReadData(addr, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(v))
	}
	return out, nil
}
