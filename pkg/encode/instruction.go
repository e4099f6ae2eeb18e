package encode

// Instruction is one assembler line: optionally labeled, and capable
// of encoding itself to a 32-bit word once every label in the program
// has a known address.
type Instruction interface {
	// Label returns the label attached to this instruction, if any.
	Label() *string
	// Encode assembles the instruction. labels maps every label in the
	// program to its instruction index (not byte address: every
	// instruction here is a full 4-byte word, so addressing works
	// per-instruction rather than per-byte); pc is this instruction's
	// own index.
	Encode(labels map[string]int64, pc uint32) (uint32, error)
}

type base struct {
	label *string
}

func (b base) Label() *string { return b.label }

// Labeled attaches a label to i.
func Labeled(label string, i Instruction) Instruction {
	switch v := i.(type) {
	case RType:
		v.label = &label
		return v
	case IType:
		v.label = &label
		return v
	case SType:
		v.label = &label
		return v
	case BType:
		v.label = &label
		return v
	case UType:
		v.label = &label
		return v
	case JType:
		v.label = &label
		return v
	case SystemType:
		v.label = &label
		return v
	case CSRType:
		v.label = &label
		return v
	case AMOType:
		v.label = &label
		return v
	default:
		return i
	}
}

// RType is a register-register instruction (add, sub, mul, ...).
type RType struct {
	base
	Mnemonic     string
	Rd, Rs1, Rs2 uint32
}

func R(mnemonic string, rd, rs1, rs2 uint32) RType {
	return RType{Mnemonic: mnemonic, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func (i RType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	return s.opcode | i.Rd<<7 | s.funct3<<12 | i.Rs1<<15 | i.Rs2<<20 | s.funct7<<25, nil
}

// IType is an immediate instruction (addi, load, jalr, shifts, ...).
type IType struct {
	base
	Mnemonic string
	Rd, Rs1  uint32
	Imm      int64
}

func I(mnemonic string, rd, rs1 uint32, imm int64) IType {
	return IType{Mnemonic: mnemonic, Rd: rd, Rs1: rs1, Imm: imm}
}

func (i IType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	// slli/srli/srai (and the W variants) encode a 6-bit shamt in
	// instruction bits 25:20 plus funct7 in bits 31:25 (its low bit is
	// zero, leaving shamt[5] intact), rather than a plain 12-bit immediate.
	switch i.Mnemonic {
	case "slli", "srli", "srai", "slliw", "srliw", "sraiw":
		shamt := uint32(i.Imm) & 0x3F
		return s.opcode | i.Rd<<7 | s.funct3<<12 | i.Rs1<<15 | shamt<<20 | s.funct7<<25, nil
	}
	imm12 := uint32(i.Imm) & 0xFFF
	return s.opcode | i.Rd<<7 | s.funct3<<12 | i.Rs1<<15 | imm12<<20, nil
}

// SType is a store instruction.
type SType struct {
	base
	Mnemonic string
	Rs1, Rs2 uint32
	Imm      int64
}

func S(mnemonic string, rs1, rs2 uint32, imm int64) SType {
	return SType{Mnemonic: mnemonic, Rs1: rs1, Rs2: rs2, Imm: imm}
}

func (i SType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	imm := uint32(i.Imm) & 0xFFF
	lo := imm & 0x1F
	hi := (imm >> 5) & 0x7F
	return s.opcode | lo<<7 | s.funct3<<12 | i.Rs1<<15 | i.Rs2<<20 | hi<<25, nil
}

// BType is a conditional branch, targeting a label.
type BType struct {
	base
	Mnemonic string
	Rs1, Rs2 uint32
	Target   string
}

func B(mnemonic string, rs1, rs2 uint32, target string) BType {
	return BType{Mnemonic: mnemonic, Rs1: rs1, Rs2: rs2, Target: target}
}

func (i BType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	targetIdx, found := labels[i.Target]
	if !found {
		return 0, &ErrUndefinedLabel{i.Target}
	}
	offset := (targetIdx - int64(pc)) * 4
	imm := uint32(offset) & 0x1FFE
	bit11 := (imm >> 11) & 1
	bit12 := uint32(offset>>12) & 1
	bits4_1 := (imm >> 1) & 0xF
	bits10_5 := (imm >> 5) & 0x3F
	return s.opcode | bit11<<7 | bits4_1<<8 | s.funct3<<12 | i.Rs1<<15 | i.Rs2<<20 | bits10_5<<25 | bit12<<31, nil
}

// UType is a 20-bit-immediate instruction (lui, auipc).
type UType struct {
	base
	Mnemonic string
	Rd       uint32
	Imm      int64 // the value placed in bits [31:12]
}

func U(mnemonic string, rd uint32, imm int64) UType {
	return UType{Mnemonic: mnemonic, Rd: rd, Imm: imm}
}

func (i UType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	return s.opcode | i.Rd<<7 | (uint32(i.Imm)&0xFFFFF)<<12, nil
}

// JType is jal, targeting a label.
type JType struct {
	base
	Rd     uint32
	Target string
}

func J(rd uint32, target string) JType {
	return JType{Rd: rd, Target: target}
}

func (i JType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s := mnemonics["jal"]
	targetIdx, found := labels[i.Target]
	if !found {
		return 0, &ErrUndefinedLabel{i.Target}
	}
	offset := uint32((targetIdx - int64(pc)) * 4)
	bit20 := (offset >> 20) & 1
	bits10_1 := (offset >> 1) & 0x3FF
	bit11 := (offset >> 11) & 1
	bits19_12 := (offset >> 12) & 0xFF
	return s.opcode | i.Rd<<7 | bits19_12<<12 | bit11<<20 | bits10_1<<21 | bit20<<31, nil
}

// SystemType is a no-operand system instruction (ecall, ebreak, mret,
// sret, wfi, fence).
type SystemType struct {
	base
	Mnemonic string
}

func System(mnemonic string) SystemType {
	return SystemType{Mnemonic: mnemonic}
}

func (i SystemType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	if i.Mnemonic == "fence" {
		return s.opcode, nil
	}
	return s.opcode | s.csrVal<<20, nil
}

// CSRType is a CSR read-modify-write instruction. For the immediate
// variants (csrrwi/csrrsi/csrrci), Rs1 carries the 5-bit zimm.
type CSRType struct {
	base
	Mnemonic string
	Rd, Rs1  uint32
	Csr      uint32
}

func CSR(mnemonic string, rd, rs1 uint32, csr uint32) CSRType {
	return CSRType{Mnemonic: mnemonic, Rd: rd, Rs1: rs1, Csr: csr}
}

func (i CSRType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	return s.opcode | i.Rd<<7 | s.funct3<<12 | i.Rs1<<15 | (i.Csr&0xFFF)<<20, nil
}

// AMOType is an atomic-memory-operation instruction.
type AMOType struct {
	base
	Mnemonic string
	Rd, Rs1, Rs2 uint32
	Aq, Rl       bool
}

func AMO(mnemonic string, rd, rs1, rs2 uint32) AMOType {
	return AMOType{Mnemonic: mnemonic, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func (i AMOType) Encode(labels map[string]int64, pc uint32) (uint32, error) {
	s, ok := mnemonics[i.Mnemonic]
	if !ok {
		return 0, &ErrUnknownMnemonic{i.Mnemonic}
	}
	var flags uint32
	if i.Aq {
		flags |= 1 << 26
	}
	if i.Rl {
		flags |= 1 << 25
	}
	return s.opcode | i.Rd<<7 | s.funct3<<12 | i.Rs1<<15 | i.Rs2<<20 | s.funct7<<25 | flags, nil
}

// Assemble performs two-pass label resolution and encoding: a first
// pass records each label's instruction index, a second pass encodes
// every instruction against the resolved table.
func Assemble(program []Instruction) ([]uint32, error) {
	labels := make(map[string]int64)
	for idx, instr := range program {
		if lbl := instr.Label(); lbl != nil {
			labels[*lbl] = int64(idx)
		}
	}
	out := make([]uint32, 0, len(program))
	for idx, instr := range program {
		word, err := instr.Encode(labels, uint32(idx))
		if err != nil {
			return nil, err
		}
		out = append(out, word)
	}
	return out, nil
}
