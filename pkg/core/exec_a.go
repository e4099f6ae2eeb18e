package core

// ExecA executes an A-extension Op against c. The reservation
// set tracked for lr.w/sc.w is a single address/valid slot: a normal
// store does not invalidate it, only a successful sc.w or a fresh
// lr.w does.
func (c *Core) ExecA(op Op) error {
	addr := c.Reg(op.Rs1)

	switch op.Kind {
	case OpLRW:
		if op.Rs2 != 0 {
			return trap(CauseIllegalInstruction, uint64(op.Raw))
		}
		v, err := c.Data.ReadData(addr, 4)
		if err != nil {
			return trap(CauseLoadAccessFault, addr)
		}
		c.reservationValid = true
		c.reservationAddr = addr
		c.SetReg(op.Rd, signExtend32(uint32(v)))
		return nil
	case OpSCW:
		if c.reservationValid && c.reservationAddr == addr {
			if err := c.Data.WriteData(addr, c.Reg(op.Rs2)&0xFFFFFFFF, 4); err != nil {
				return trap(CauseStoreAccessFault, addr)
			}
			c.reservationValid = false
			c.SetReg(op.Rd, 0)
			return nil
		}
		c.SetReg(op.Rd, 1)
		return nil
	}

	old, err := c.Data.ReadData(addr, 4)
	if err != nil {
		return trap(CauseLoadAccessFault, addr)
	}
	oldW := uint32(old)
	rhs := uint32(c.Reg(op.Rs2))

	var result uint32
	switch op.Kind {
	case OpAMOSWAPW:
		result = rhs
	case OpAMOADDW:
		result = oldW + rhs
	case OpAMOXORW:
		result = oldW ^ rhs
	case OpAMOANDW:
		result = oldW & rhs
	case OpAMOORW:
		result = oldW | rhs
	case OpAMOMINW:
		if int32(oldW) < int32(rhs) {
			result = oldW
		} else {
			result = rhs
		}
	case OpAMOMAXW:
		if int32(oldW) > int32(rhs) {
			result = oldW
		} else {
			result = rhs
		}
	case OpAMOMINUW:
		if oldW < rhs {
			result = oldW
		} else {
			result = rhs
		}
	case OpAMOMAXUW:
		if oldW > rhs {
			result = oldW
		} else {
			result = rhs
		}
	default:
		return trap(CauseIllegalInstruction, uint64(op.Raw))
	}

	if err := c.Data.WriteData(addr, uint64(result), 4); err != nil {
		return trap(CauseStoreAccessFault, addr)
	}
	c.SetReg(op.Rd, signExtend32(oldW))
	return nil
}
