package core

import "math/bits"

// ExecM executes an M-extension Op against c. Division by zero
// and signed overflow (MIN/-1) are defined numerical results, never
// errors: div-by-zero yields -1 (signed) or all-ones (unsigned), and
// MIN/-1 yields MIN with a zero remainder.
func (c *Core) ExecM(op Op) error {
	switch op.Kind {
	case OpMUL:
		c.SetReg(op.Rd, c.mask(c.Reg(op.Rs1)*c.Reg(op.Rs2)))
	case OpMULH:
		c.SetReg(op.Rd, c.mask(uint64(c.mulhSigned(c.SignedReg(op.Rs1), c.SignedReg(op.Rs2)))))
	case OpMULHSU:
		c.SetReg(op.Rd, c.mask(uint64(c.mulhSignedUnsigned(c.SignedReg(op.Rs1), c.Reg(op.Rs2)))))
	case OpMULHU:
		c.SetReg(op.Rd, c.mask(c.mulhUnsigned(c.Reg(op.Rs1), c.Reg(op.Rs2))))

	case OpDIV:
		a, b := c.SignedReg(op.Rs1), c.SignedReg(op.Rs2)
		c.SetReg(op.Rd, c.mask(uint64(signedDiv(a, b, c.XLen))))
	case OpDIVU:
		a, b := c.Reg(op.Rs1), c.Reg(op.Rs2)
		c.SetReg(op.Rd, c.mask(unsignedDiv(a, b)))
	case OpREM:
		a, b := c.SignedReg(op.Rs1), c.SignedReg(op.Rs2)
		c.SetReg(op.Rd, c.mask(uint64(signedRem(a, b, c.XLen))))
	case OpREMU:
		a, b := c.Reg(op.Rs1), c.Reg(op.Rs2)
		c.SetReg(op.Rd, c.mask(unsignedRem(a, b)))

	case OpMULW:
		c.SetReg(op.Rd, signExtend32(uint32(c.Reg(op.Rs1))*uint32(c.Reg(op.Rs2))))
	case OpDIVW:
		a, b := int32(uint32(c.Reg(op.Rs1))), int32(uint32(c.Reg(op.Rs2)))
		c.SetReg(op.Rd, uint64(int64(signedDiv32(a, b))))
	case OpDIVUW:
		a, b := uint32(c.Reg(op.Rs1)), uint32(c.Reg(op.Rs2))
		c.SetReg(op.Rd, signExtend32(unsignedDiv32(a, b)))
	case OpREMW:
		a, b := int32(uint32(c.Reg(op.Rs1))), int32(uint32(c.Reg(op.Rs2)))
		c.SetReg(op.Rd, uint64(int64(signedRem32(a, b))))
	case OpREMUW:
		a, b := uint32(c.Reg(op.Rs1)), uint32(c.Reg(op.Rs2))
		c.SetReg(op.Rd, signExtend32(unsignedRem32(a, b)))

	default:
		return trap(CauseIllegalInstruction, uint64(op.Raw))
	}
	return nil
}

// mulhSigned/mulhSignedUnsigned/mulhUnsigned compute the high XLen
// bits of a full-width product. On RV32 the 32-bit operands' product
// fits in 64 bits, so the high word is that product shifted right by
// 32; on RV64 they use math/bits.Mul64 plus the standard
// two's-complement adjustment.
func (c *Core) mulhSigned(a, b int64) int64 {
	if c.XLen == XLen32 {
		return int64(int32((a * b) >> 32))
	}
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

func (c *Core) mulhSignedUnsigned(a int64, b uint64) int64 {
	if c.XLen == XLen32 {
		return int64(int32((a * int64(b)) >> 32))
	}
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return int64(hi)
}

func (c *Core) mulhUnsigned(a, b uint64) uint64 {
	if c.XLen == XLen32 {
		return (a * b) >> 32
	}
	hi, _ := bits.Mul64(a, b)
	return hi
}

func signedDiv(a, b int64, xlen XLen) int64 {
	if b == 0 {
		return -1
	}
	if a == minSigned(xlen) && b == -1 {
		return a
	}
	return a / b
}

func signedRem(a, b int64, xlen XLen) int64 {
	if b == 0 {
		return a
	}
	if a == minSigned(xlen) && b == -1 {
		return 0
	}
	return a % b
}

func minSigned(xlen XLen) int64 {
	if xlen == XLen32 {
		return int64(int32(-1 << 31))
	}
	return -1 << 63
}

func unsignedDiv(a, b uint64) uint64 {
	if b == 0 {
		return ^uint64(0)
	}
	return a / b
}

func unsignedRem(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

func signedDiv32(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == -1<<31 && b == -1 {
		return a
	}
	return a / b
}

func signedRem32(a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == -1<<31 && b == -1 {
		return 0
	}
	return a % b
}

func unsignedDiv32(a, b uint32) uint32 {
	if b == 0 {
		return ^uint32(0)
	}
	return a / b
}

func unsignedRem32(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}
