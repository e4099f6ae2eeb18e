package core

// StepOutcome reports why Step or Run returned control to the caller.
type StepOutcome int

const (
	// StepOK means an instruction retired normally (or trapped
	// internally) and execution can continue.
	StepOK StepOutcome = iota
	// StepBreakpoint means Run stopped because the next instruction's
	// address carries a breakpoint; it was not executed.
	StepBreakpoint
	// StepHalted means the fence-halt quirk fired.
	StepHalted
)

// Step fetches, decodes, and executes exactly one instruction,
// ignoring breakpoints. A synchronous trap raised by fetch, decode or
// execution is entered immediately; a fetch or decode fault then
// returns a nil error, while a trap raised by execution is also
// returned to the caller. The retired-instruction counter advances for every
// instruction that reaches this point, whether it completes normally
// or traps, matching how real hardware counts minstret; the pending
// external interrupt line is polled once, after a normal retirement.
func (c *Core) Step() (StepOutcome, error) {
	pc := c.PC()

	raw32, err := c.Code.ReadCode(pc)
	if err != nil {
		c.EnterTrap(CauseInstructionAccess, pc)
		c.Perf.InstRetired++
		c.Ticks++
		return StepOK, nil
	}
	c.Perf.CodeReads++

	ext := ClassifyExtension(raw32)
	var op Op
	switch ext {
	case ExtCompressed:
		op = DecodeCompressed(c.XLen, uint16(raw32))
	case ExtM:
		op = DecodeM(c.XLen, raw32)
	case ExtA:
		op = DecodeA(raw32)
	default:
		op = DecodeBase(c.XLen, raw32)
	}

	if op.Kind == OpFENCE && c.QuirksFenceHalt {
		next, err := c.Code.ReadCode(pc + uint64(op.Length))
		if err == nil && next == 0x00000073 {
			return StepHalted, nil
		}
	}

	if op.Kind == OpError {
		c.EnterTrap(CauseIllegalInstruction, uint64(op.Raw))
		c.Perf.InstRetired++
		c.Ticks++
		return StepOK, nil
	}

	var execErr error
	switch ext {
	case ExtM:
		execErr = c.ExecM(op)
	case ExtA:
		execErr = c.ExecA(op)
	default:
		execErr = c.ExecBase(op)
	}

	if execErr != nil {
		if te, ok := execErr.(*TrapError); ok {
			c.EnterTrap(te.Cause, te.Tval)
		} else {
			c.EnterTrap(CauseIllegalInstruction, uint64(op.Raw))
		}
		c.Perf.InstRetired++
		c.Ticks++
		return StepOK, execErr
	}

	if c.PC() == pc {
		c.SetPC(pc + uint64(op.Length))
	}
	c.Perf.InstRetired++
	c.Ticks++
	c.PollInterrupt()
	return StepOK, nil
}

// Run calls Step repeatedly until a breakpoint is reached, the
// fence-halt quirk fires, maxSteps instructions have retired (0 means
// unbounded), or a step reports an error Run itself cannot recover
// from. The instruction at the current PC always executes first (so
// resuming from a breakpoint makes progress); the breakpoint set is
// then checked before every subsequent Step call.
func (c *Core) Run(maxSteps uint64) (StepOutcome, error) {
	var n uint64
	for {
		if n > 0 && c.HasBreakpoint(c.PC()) {
			return StepBreakpoint, nil
		}
		outcome, err := c.Step()
		if outcome == StepHalted {
			return StepHalted, nil
		}
		if err != nil {
			if _, ok := err.(*TrapError); !ok {
				return outcome, err
			}
		}
		n++
		if maxSteps != 0 && n >= maxSteps {
			return StepOK, nil
		}
	}
}
