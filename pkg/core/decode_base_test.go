package core

import "testing"

func TestDecodeBaseADDI(t *testing.T) {
	// addi x1, x2, 5
	raw := uint32(5<<20 | 2<<15 | 0<<12 | 1<<7 | opcOpImm)
	op := DecodeBase(XLen32, raw)
	if op.Kind != OpADDI {
		t.Fatalf("Kind = %v, want OpADDI", op.Kind)
	}
	if op.Rd != 1 || op.Rs1 != 2 || op.ImmI != 5 {
		t.Fatalf("op = %+v", op)
	}
	if op.Length != 4 {
		t.Fatalf("Length = %d, want 4", op.Length)
	}
}

func TestDecodeBaseNegativeImmediateSignExtends(t *testing.T) {
	// addi x1, x0, -1  (imm = 0xFFF)
	raw := uint32(0xFFF<<20 | 0<<15 | 0<<12 | 1<<7 | opcOpImm)
	op := DecodeBase(XLen32, raw)
	if op.ImmI != -1 {
		t.Fatalf("ImmI = %d, want -1", op.ImmI)
	}
}

func TestDecodeBaseBranch(t *testing.T) {
	// beq x1, x2, 0 (immB encoding all zero still decodes the opcode)
	raw := uint32(2<<20 | 1<<15 | 0<<12 | opcBranch)
	op := DecodeBase(XLen32, raw)
	if op.Kind != OpBEQ {
		t.Fatalf("Kind = %v, want OpBEQ", op.Kind)
	}
}

func TestDecodeBaseLoadWidthsGatedByXLen(t *testing.T) {
	// ld has funct3=011 on the load opcode; only valid on RV64.
	raw := uint32(0<<20 | 1<<15 | 0b011<<12 | 2<<7 | opcLoad)
	if op := DecodeBase(XLen32, raw); op.Kind != OpError {
		t.Fatalf("RV32 ld decode = %v, want OpError", op.Kind)
	}
	if op := DecodeBase(XLen64, raw); op.Kind != OpLD {
		t.Fatalf("RV64 ld decode = %v, want OpLD", op.Kind)
	}
}

func TestDecodeBaseShiftRV32UsesFunct7ForSRAI(t *testing.T) {
	// srai x1, x2, 3 => funct7=0100000 in bits [31:25]
	raw := uint32(0b0100000<<25 | 3<<20 | 2<<15 | 0b101<<12 | 1<<7 | opcOpImm)
	op := DecodeBase(XLen32, raw)
	if op.Kind != OpSRAI {
		t.Fatalf("Kind = %v, want OpSRAI", op.Kind)
	}
	if op.Shamt != 3 {
		t.Fatalf("Shamt = %d, want 3", op.Shamt)
	}
}

func TestDecodeBaseShiftRV64UsesSixBitShamt(t *testing.T) {
	// srli x1, x2, 40 on RV64: shamt field is bits [25:20] (6 bits)
	raw := uint32(40<<20 | 2<<15 | 0b101<<12 | 1<<7 | opcOpImm)
	op := DecodeBase(XLen64, raw)
	if op.Kind != OpSRLI {
		t.Fatalf("Kind = %v, want OpSRLI", op.Kind)
	}
	if op.Shamt != 40 {
		t.Fatalf("Shamt = %d, want 40", op.Shamt)
	}
}

func TestDecodeBaseSystemECALLEBREAK(t *testing.T) {
	ecall := DecodeBase(XLen32, opcSystem)
	if ecall.Kind != OpECALL {
		t.Fatalf("ecall Kind = %v, want OpECALL", ecall.Kind)
	}
	ebreak := DecodeBase(XLen32, uint32(1<<20)|opcSystem)
	if ebreak.Kind != OpEBREAK {
		t.Fatalf("ebreak Kind = %v, want OpEBREAK", ebreak.Kind)
	}
}

func TestDecodeBaseCSRRW(t *testing.T) {
	// csrrw x1, mstatus, x2
	raw := uint32(CSRMstatus<<20 | 2<<15 | 0b001<<12 | 1<<7 | opcSystem)
	op := DecodeBase(XLen32, raw)
	if op.Kind != OpCSRRW {
		t.Fatalf("Kind = %v, want OpCSRRW", op.Kind)
	}
	if op.Csr != CSRMstatus {
		t.Fatalf("Csr = 0x%x, want mstatus", op.Csr)
	}
}

func TestDecodeBaseMretSret(t *testing.T) {
	mret := DecodeBase(XLen32, uint32(0b001100000010<<20)|opcSystem)
	if mret.Kind != OpMRET {
		t.Fatalf("Kind = %v, want OpMRET", mret.Kind)
	}
	sret := DecodeBase(XLen32, uint32(0b000100000010<<20)|opcSystem)
	if sret.Kind != OpSRET {
		t.Fatalf("Kind = %v, want OpSRET", sret.Kind)
	}
	uret := DecodeBase(XLen32, uint32(0b000000000010<<20)|opcSystem)
	if uret.Kind != OpURET {
		t.Fatalf("Kind = %v, want OpURET", uret.Kind)
	}
}

func TestDecodeBaseUnmatchedOpcodeIsError(t *testing.T) {
	// reserved opcode 0b1111111 with low bits set so it isn't compressed
	op := DecodeBase(XLen32, 0x7F)
	if op.Kind != OpError {
		t.Fatalf("Kind = %v, want OpError", op.Kind)
	}
}
