package debugstub

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mvmont-sim/rvtlm/pkg/core"
)

type fixedMem struct{ data map[uint64]uint32 }

func (f fixedMem) ReadCode(addr uint64) (uint32, error) { return f.data[addr], nil }
func (f fixedMem) ReadData(addr uint64, size int) (uint64, error) {
	return uint64(f.data[addr]), nil
}
func (f fixedMem) WriteData(addr uint64, value uint64, size int) error { return nil }

func newServer() *Server {
	mem := fixedMem{data: map[uint64]uint32{}}
	c := core.New(core.XLen32, 0, mem, mem, 0x1000)
	return New(c, "")
}

func TestNewDefaultsToDefaultAddr(t *testing.T) {
	s := New(nil, "")
	if s.addr != DefaultAddr {
		t.Fatalf("addr = %q, want %q", s.addr, DefaultAddr)
	}
}

func TestCmdRegsListsPCAndEveryRegister(t *testing.T) {
	s := newServer()
	s.c.SetReg(5, 0x42)
	var buf bytes.Buffer
	s.cmdRegs(&buf)

	out := buf.String()
	if !strings.Contains(out, "pc=0x0") {
		t.Fatalf("regs output %q missing pc", out)
	}
	if !strings.Contains(out, "x5=0x42") {
		t.Fatalf("regs output %q missing x5", out)
	}
}

func TestCmdBreakSetsBreakpoint(t *testing.T) {
	s := newServer()
	var buf bytes.Buffer
	s.cmdBreak(&buf, []string{"0x100"})
	if !s.c.HasBreakpoint(0x100) {
		t.Fatal("break command did not set the breakpoint on the core")
	}
	if !strings.Contains(buf.String(), "0x100") {
		t.Fatalf("output %q should echo the address set", buf.String())
	}
}

func TestCmdBreakRejectsWrongArgCount(t *testing.T) {
	s := newServer()
	var buf bytes.Buffer
	s.cmdBreak(&buf, nil)
	if !strings.Contains(buf.String(), "usage") {
		t.Fatalf("output %q should report usage error for a missing address", buf.String())
	}
}

func TestDispatchUnknownCommandReportsError(t *testing.T) {
	s := newServer()
	var buf bytes.Buffer
	s.dispatch(&buf, "frobnicate")
	if !strings.Contains(buf.String(), "unknown command") {
		t.Fatalf("output %q should report an unknown-command error", buf.String())
	}
}

func TestDispatchStepReportsOutcome(t *testing.T) {
	s := newServer()
	var buf bytes.Buffer
	s.dispatch(&buf, "step")
	if !strings.Contains(buf.String(), "step pc=") {
		t.Fatalf("output %q should report the step outcome", buf.String())
	}
}
