package core

import "testing"

func TestDecodeMMUL(t *testing.T) {
	// mul x1, x2, x3: opcode OP, funct7=0000001, funct3=000
	raw := uint32(0b0000001<<25 | 3<<20 | 2<<15 | 0b000<<12 | 1<<7 | opcOp)
	op := DecodeM(XLen32, raw)
	if op.Kind != OpMUL {
		t.Fatalf("Kind = %v, want OpMUL", op.Kind)
	}
	if op.Rd != 1 || op.Rs1 != 2 || op.Rs2 != 3 {
		t.Fatalf("op = %+v", op)
	}
}

func TestDecodeMDivRemFamily(t *testing.T) {
	cases := []struct {
		funct3 uint32
		want   OpKind
	}{
		{0b001, OpMULH},
		{0b010, OpMULHSU},
		{0b011, OpMULHU},
		{0b100, OpDIV},
		{0b101, OpDIVU},
		{0b110, OpREM},
		{0b111, OpREMU},
	}
	for _, tc := range cases {
		raw := uint32(0b0000001<<25 | 0<<15 | tc.funct3<<12 | opcOp)
		if op := DecodeM(XLen32, raw); op.Kind != tc.want {
			t.Fatalf("funct3=%03b Kind = %v, want %v", tc.funct3, op.Kind, tc.want)
		}
	}
}

func TestDecodeMWVariantsRequireRV64(t *testing.T) {
	raw := uint32(0b0000001<<25 | 0<<15 | 0b000<<12 | opcOp32)
	if op := DecodeM(XLen32, raw); op.Kind != OpError {
		t.Fatalf("RV32 mulw decode = %v, want OpError", op.Kind)
	}
	if op := DecodeM(XLen64, raw); op.Kind != OpMULW {
		t.Fatalf("RV64 mulw decode = %v, want OpMULW", op.Kind)
	}
}
