package core

// Exception cause codes, values per the RISC-V unprivileged
// architecture's exception-code table.
const (
	CauseInstructionMisalign = 0
	CauseInstructionAccess   = 1
	CauseIllegalInstruction  = 2
	CauseBreakpoint          = 3
	CauseLoadAddrMisalign    = 4
	CauseLoadAccessFault     = 5
	CauseStoreAddrMisalign   = 6
	CauseStoreAccessFault    = 7
	CauseCallFromUMode       = 8
	CauseCallFromSMode       = 9
	CauseCallFromMMode       = 11
)

// TrapError carries the cause and mtval an executor wants the step
// loop to enter a trap with. Decode errors, illegal instructions,
// misaligned/faulting memory accesses, and ecall/ebreak are all
// reported this way rather than as panics.
type TrapError struct {
	Cause uint64
	Tval  uint64
}

func (e *TrapError) Error() string {
	return "core: trap"
}

func trap(cause, tval uint64) error {
	return &TrapError{Cause: cause, Tval: tval}
}

// EnterTrap vectors into mtvec for a synchronous exception or taken
// interrupt:
//  1. current PC -> mepc
//  2. mtval <- the supplied value
//  3. mcause <- cause (interrupts carry the high bit of XLen set)
//  4. mstatus: MPIE <- MIE, MIE <- 0, MPP <- M-mode (11)
//  5. PC <- mtvec
func (c *Core) EnterTrap(cause, tval uint64) {
	c.WriteCSR(CSRMepc, c.pc)
	c.WriteCSR(CSRMtval, tval)
	c.WriteCSR(CSRMcause, cause)

	status := c.ReadCSR(CSRMstatus)
	if status&MstatusMIE != 0 {
		status |= MstatusMPIE
	} else {
		status &^= MstatusMPIE
	}
	status &^= MstatusMIE
	status |= MstatusMPP
	c.WriteCSR(CSRMstatus, status)

	c.SetPC(c.ReadCSR(CSRMtvec))
}

// interruptHighBit is the cause-code high bit set on taken interrupts,
// 1<<31 on RV32 and 1<<63 on RV64.
func (c *Core) interruptHighBit() uint64 {
	if c.XLen == XLen32 {
		return 1 << 31
	}
	return 1 << 63
}

// PollInterrupt is called once per step, after execution, applying the
// interrupt admission rule: if an external interrupt is pending,
// mstatus.MIE is set, and mip.MEIP is not already asserted, assert
// mip.MEIP and vector into the trap handler with the requester's
// cause code. When the request line has dropped, mip.MEIP is cleared
// on the next step.
func (c *Core) PollInterrupt() {
	if c.interruptPending {
		status := c.ReadCSR(CSRMstatus)
		if status&MstatusMIE == 0 {
			return
		}
		mip := c.ReadCSR(CSRMip)
		if mip&MipMEIP != 0 {
			return
		}
		c.WriteCSR(CSRMip, mip|MipMEIP)
		c.EnterTrap(c.interruptHighBit()|c.interruptCause, 0)
		c.interruptPending = false
		c.irqAlreadyLow = false
		return
	}
	if !c.irqAlreadyLow {
		mip := c.ReadCSR(CSRMip)
		c.WriteCSR(CSRMip, mip&^uint64(MipMEIP))
		c.irqAlreadyLow = true
	}
}

// Mret implements the mret instruction: load PC from mepc, copy
// MPIE -> MIE, then set MPIE (the canonical MIE/MPIE stacking only, no
// non-conformant cause-derived OR).
func (c *Core) Mret() {
	status := c.ReadCSR(CSRMstatus)
	if status&MstatusMPIE != 0 {
		status |= MstatusMIE
	} else {
		status &^= MstatusMIE
	}
	status |= MstatusMPIE
	c.WriteCSR(CSRMstatus, status)
	c.SetPC(c.ReadCSR(CSRMepc))
}

// Sret implements sret: load PC from sepc.
func (c *Core) Sret() {
	c.SetPC(c.ReadCSR(CSRSepc))
}
