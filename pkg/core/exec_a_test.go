package core

import "testing"

func TestExecLRWSCWSuccess(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 5
	c.SetReg(1, 0x1000)

	lr := Op{Kind: OpLRW, Rd: 2, Rs1: 1}
	if err := c.ExecA(lr); err != nil {
		t.Fatal(err)
	}
	if got := c.Reg(2); got != 5 {
		t.Fatalf("lr x2 = %d, want 5", got)
	}

	c.SetReg(3, 99)
	sc := Op{Kind: OpSCW, Rd: 4, Rs1: 1, Rs2: 3}
	if err := c.ExecA(sc); err != nil {
		t.Fatal(err)
	}
	if got := c.Reg(4); got != 0 {
		t.Fatalf("sc.w should report success (0) in x4, got %d", got)
	}
	if got := mem.data[0x1000]; got != 99 {
		t.Fatalf("memory not updated by successful sc.w: %d", got)
	}
}

func TestExecLRWWithNonzeroRs2IsIllegal(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 5
	c.SetReg(1, 0x1000)

	lr := Op{Kind: OpLRW, Rd: 2, Rs1: 1, Rs2: 7, Raw: 0xDEADBEEF}
	err := c.ExecA(lr)
	te, ok := err.(*TrapError)
	if !ok {
		t.Fatalf("expected *TrapError, got %v", err)
	}
	if te.Cause != CauseIllegalInstruction {
		t.Fatalf("cause = %d, want CauseIllegalInstruction", te.Cause)
	}
}

func TestExecSCWFailsWithoutReservation(t *testing.T) {
	c, _ := newTestCore(XLen32)
	c.SetReg(1, 0x1000)
	c.SetReg(2, 77)
	sc := Op{Kind: OpSCW, Rd: 3, Rs1: 1, Rs2: 2}
	if err := c.ExecA(sc); err != nil {
		t.Fatal(err)
	}
	if got := c.Reg(3); got != 1 {
		t.Fatalf("sc.w without a reservation should report failure (1), got %d", got)
	}
}

func TestExecSCWFailsAfterReservationAddressChanges(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 1
	mem.data[0x2000] = 1
	c.SetReg(1, 0x1000)
	if err := c.ExecA(Op{Kind: OpLRW, Rd: 2, Rs1: 1}); err != nil {
		t.Fatal(err)
	}

	c.SetReg(1, 0x2000)
	sc := Op{Kind: OpSCW, Rd: 3, Rs1: 1, Rs2: 2}
	if err := c.ExecA(sc); err != nil {
		t.Fatal(err)
	}
	if got := c.Reg(3); got != 1 {
		t.Fatalf("sc.w against a different address should fail, x3 = %d", got)
	}
}

func TestExecAMOADDWReturnsOldValue(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 10
	c.SetReg(1, 0x1000)
	c.SetReg(2, 5)
	op := Op{Kind: OpAMOADDW, Rd: 3, Rs1: 1, Rs2: 2}
	if err := c.ExecA(op); err != nil {
		t.Fatal(err)
	}
	if got := c.Reg(3); got != 10 {
		t.Fatalf("amoadd.w should return the old value 10 in rd, got %d", got)
	}
	if got := mem.data[0x1000]; got != 15 {
		t.Fatalf("memory after amoadd.w = %d, want 15", got)
	}
}

func TestExecAMOMAXWSignedComparison(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 0xFFFFFFFF // -1 signed
	c.SetReg(1, 0x1000)
	c.SetReg(2, 1)
	op := Op{Kind: OpAMOMAXW, Rd: 3, Rs1: 1, Rs2: 2}
	if err := c.ExecA(op); err != nil {
		t.Fatal(err)
	}
	if got := mem.data[0x1000]; got != 1 {
		t.Fatalf("amomax.w should pick 1 over -1, memory = %d", got)
	}
}

func TestExecAMOMAXUWUnsignedComparison(t *testing.T) {
	c, mem := newTestCore(XLen32)
	mem.data[0x1000] = 0xFFFFFFFF
	c.SetReg(1, 0x1000)
	c.SetReg(2, 1)
	op := Op{Kind: OpAMOMAXUW, Rd: 3, Rs1: 1, Rs2: 2}
	if err := c.ExecA(op); err != nil {
		t.Fatal(err)
	}
	if got := mem.data[0x1000]; got != 0xFFFFFFFF {
		t.Fatalf("amomaxu.w should keep 0xFFFFFFFF as unsigned-larger, memory = 0x%x", got)
	}
}
