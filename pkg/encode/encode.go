// Package encode assembles 32-bit RV32/RV64 I, M and A instructions
// from mnemonic operations, the opposite direction of pkg/core's
// decoder. It exists for tests and cmd/rvasm: one type per instruction
// format, an Encode method, and two-pass label resolution for branches
// and jumps. Compressed (RVC, 16-bit) encodings are not supported.
package encode

import "fmt"

// format tags which field layout an Instruction's Encode uses.
type format int

const (
	formatR format = iota
	formatI
	formatS
	formatB
	formatU
	formatJ
	formatSystem
	formatCSR
	formatAMO
)

type spec struct {
	format          format
	opcode          uint32
	funct3, funct7  uint32
	csrVal          uint32 // for formatSystem mnemonics keyed by csr-like immediate
}

// mnemonics maps an assembler mnemonic to its encoding recipe. Only
// the subset of RV32/RV64IMAC actually exercised by the scenarios and
// tests is included; ErrUnknownMnemonic covers the rest.
var mnemonics = map[string]spec{
	"lui":   {format: formatU, opcode: 0b0110111},
	"auipc": {format: formatU, opcode: 0b0010111},
	"jal":   {format: formatJ, opcode: 0b1101111},
	"jalr":  {format: formatI, opcode: 0b1100111, funct3: 0},

	"beq":  {format: formatB, opcode: 0b1100011, funct3: 0b000},
	"bne":  {format: formatB, opcode: 0b1100011, funct3: 0b001},
	"blt":  {format: formatB, opcode: 0b1100011, funct3: 0b100},
	"bge":  {format: formatB, opcode: 0b1100011, funct3: 0b101},
	"bltu": {format: formatB, opcode: 0b1100011, funct3: 0b110},
	"bgeu": {format: formatB, opcode: 0b1100011, funct3: 0b111},

	"lb":  {format: formatI, opcode: 0b0000011, funct3: 0b000},
	"lh":  {format: formatI, opcode: 0b0000011, funct3: 0b001},
	"lw":  {format: formatI, opcode: 0b0000011, funct3: 0b010},
	"ld":  {format: formatI, opcode: 0b0000011, funct3: 0b011},
	"lbu": {format: formatI, opcode: 0b0000011, funct3: 0b100},
	"lhu": {format: formatI, opcode: 0b0000011, funct3: 0b101},
	"lwu": {format: formatI, opcode: 0b0000011, funct3: 0b110},

	"sb": {format: formatS, opcode: 0b0100011, funct3: 0b000},
	"sh": {format: formatS, opcode: 0b0100011, funct3: 0b001},
	"sw": {format: formatS, opcode: 0b0100011, funct3: 0b010},
	"sd": {format: formatS, opcode: 0b0100011, funct3: 0b011},

	"addi":  {format: formatI, opcode: 0b0010011, funct3: 0b000},
	"slti":  {format: formatI, opcode: 0b0010011, funct3: 0b010},
	"sltiu": {format: formatI, opcode: 0b0010011, funct3: 0b011},
	"xori":  {format: formatI, opcode: 0b0010011, funct3: 0b100},
	"ori":   {format: formatI, opcode: 0b0010011, funct3: 0b110},
	"andi":  {format: formatI, opcode: 0b0010011, funct3: 0b111},
	"slli":  {format: formatI, opcode: 0b0010011, funct3: 0b001, funct7: 0b0000000},
	"srli":  {format: formatI, opcode: 0b0010011, funct3: 0b101, funct7: 0b0000000},
	"srai":  {format: formatI, opcode: 0b0010011, funct3: 0b101, funct7: 0b0100000},

	"addiw": {format: formatI, opcode: 0b0011011, funct3: 0b000},
	"slliw": {format: formatI, opcode: 0b0011011, funct3: 0b001, funct7: 0b0000000},
	"srliw": {format: formatI, opcode: 0b0011011, funct3: 0b101, funct7: 0b0000000},
	"sraiw": {format: formatI, opcode: 0b0011011, funct3: 0b101, funct7: 0b0100000},

	"add": {format: formatR, opcode: 0b0110011, funct3: 0b000, funct7: 0b0000000},
	"sub": {format: formatR, opcode: 0b0110011, funct3: 0b000, funct7: 0b0100000},
	"sll": {format: formatR, opcode: 0b0110011, funct3: 0b001, funct7: 0b0000000},
	"slt": {format: formatR, opcode: 0b0110011, funct3: 0b010, funct7: 0b0000000},
	"sltu": {format: formatR, opcode: 0b0110011, funct3: 0b011, funct7: 0b0000000},
	"xor": {format: formatR, opcode: 0b0110011, funct3: 0b100, funct7: 0b0000000},
	"srl": {format: formatR, opcode: 0b0110011, funct3: 0b101, funct7: 0b0000000},
	"sra": {format: formatR, opcode: 0b0110011, funct3: 0b101, funct7: 0b0100000},
	"or":  {format: formatR, opcode: 0b0110011, funct3: 0b110, funct7: 0b0000000},
	"and": {format: formatR, opcode: 0b0110011, funct3: 0b111, funct7: 0b0000000},

	"addw": {format: formatR, opcode: 0b0111011, funct3: 0b000, funct7: 0b0000000},
	"subw": {format: formatR, opcode: 0b0111011, funct3: 0b000, funct7: 0b0100000},
	"sllw": {format: formatR, opcode: 0b0111011, funct3: 0b001, funct7: 0b0000000},
	"srlw": {format: formatR, opcode: 0b0111011, funct3: 0b101, funct7: 0b0000000},
	"sraw": {format: formatR, opcode: 0b0111011, funct3: 0b101, funct7: 0b0100000},

	"mul":    {format: formatR, opcode: 0b0110011, funct3: 0b000, funct7: 0b0000001},
	"mulh":   {format: formatR, opcode: 0b0110011, funct3: 0b001, funct7: 0b0000001},
	"mulhsu": {format: formatR, opcode: 0b0110011, funct3: 0b010, funct7: 0b0000001},
	"mulhu":  {format: formatR, opcode: 0b0110011, funct3: 0b011, funct7: 0b0000001},
	"div":    {format: formatR, opcode: 0b0110011, funct3: 0b100, funct7: 0b0000001},
	"divu":   {format: formatR, opcode: 0b0110011, funct3: 0b101, funct7: 0b0000001},
	"rem":    {format: formatR, opcode: 0b0110011, funct3: 0b110, funct7: 0b0000001},
	"remu":   {format: formatR, opcode: 0b0110011, funct3: 0b111, funct7: 0b0000001},

	"mulw":  {format: formatR, opcode: 0b0111011, funct3: 0b000, funct7: 0b0000001},
	"divw":  {format: formatR, opcode: 0b0111011, funct3: 0b100, funct7: 0b0000001},
	"divuw": {format: formatR, opcode: 0b0111011, funct3: 0b101, funct7: 0b0000001},
	"remw":  {format: formatR, opcode: 0b0111011, funct3: 0b110, funct7: 0b0000001},
	"remuw": {format: formatR, opcode: 0b0111011, funct3: 0b111, funct7: 0b0000001},

	"fence":  {format: formatSystem, opcode: 0b0001111, funct3: 0, csrVal: 0},
	"ecall":  {format: formatSystem, opcode: 0b1110011, funct3: 0, csrVal: 0b000000000000},
	"ebreak": {format: formatSystem, opcode: 0b1110011, funct3: 0, csrVal: 0b000000000001},
	"mret":   {format: formatSystem, opcode: 0b1110011, funct3: 0, csrVal: 0b001100000010},
	"sret":   {format: formatSystem, opcode: 0b1110011, funct3: 0, csrVal: 0b000100000010},
	"wfi":    {format: formatSystem, opcode: 0b1110011, funct3: 0, csrVal: 0b000100000101},

	"csrrw":  {format: formatCSR, opcode: 0b1110011, funct3: 0b001},
	"csrrs":  {format: formatCSR, opcode: 0b1110011, funct3: 0b010},
	"csrrc":  {format: formatCSR, opcode: 0b1110011, funct3: 0b011},
	"csrrwi": {format: formatCSR, opcode: 0b1110011, funct3: 0b101},
	"csrrsi": {format: formatCSR, opcode: 0b1110011, funct3: 0b110},
	"csrrci": {format: formatCSR, opcode: 0b1110011, funct3: 0b111},

	"lr.w":      {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b00010 << 2},
	"sc.w":      {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b00011 << 2},
	"amoswap.w": {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b00001 << 2},
	"amoadd.w":  {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b00000 << 2},
	"amoxor.w":  {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b00100 << 2},
	"amoand.w":  {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b01100 << 2},
	"amoor.w":   {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b01000 << 2},
	"amomin.w":  {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b10000 << 2},
	"amomax.w":  {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b10100 << 2},
	"amominu.w": {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b11000 << 2},
	"amomaxu.w": {format: formatAMO, opcode: 0b0101111, funct3: 0b010, funct7: 0b11100 << 2},
}

// ErrUnknownMnemonic is returned by Encode for a mnemonic not present
// in the table above.
type ErrUnknownMnemonic struct{ Mnemonic string }

func (e *ErrUnknownMnemonic) Error() string {
	return fmt.Sprintf("encode: unknown mnemonic %q", e.Mnemonic)
}

// ErrUndefinedLabel is returned when a branch or jump targets a label
// that was never defined in the program passed to Assemble.
type ErrUndefinedLabel struct{ Label string }

func (e *ErrUndefinedLabel) Error() string {
	return fmt.Sprintf("encode: undefined label %q", e.Label)
}
