// Package insts provides the vector ALU instruction definitions and decoding.
package insts

import (
	"fmt"
	"strings"
)

// Op represents a vector ALU opcode.
type Op uint16

// Vector ALU opcodes.
const (
	OpUnknown Op = iota

	// Lane-wise float ops, shared by bf16, fp16 and msfp16.
	OpFADD
	OpFSUB
	OpFMUL
	OpFMAX
	OpFMADD
	OpFDOT // fp16 only

	// QALU amplitude ops.
	OpQAllocA
	OpQAllocB
	OpQHPlus
	OpQHMinus
	OpQSwapA
	OpQSwapB
	OpQPhase
	OpQMeasure
	OpQNormA
	OpQNormB
)

var opNames = map[Op]string{
	OpUnknown:  "unknown",
	OpFADD:     "fadd",
	OpFSUB:     "fsub",
	OpFMUL:     "fmul",
	OpFMAX:     "fmax",
	OpFMADD:    "fmadd",
	OpFDOT:     "fdot",
	OpQAllocA:  "Alloc_A",
	OpQAllocB:  "Alloc_B",
	OpQHPlus:   "H+",
	OpQHMinus:  "H-",
	OpQSwapA:   "Swap_A",
	OpQSwapB:   "Swap_B",
	OpQPhase:   "Phase",
	OpQMeasure: "Measure",
	OpQNormA:   "Normalize_A",
	OpQNormB:   "Normalize_B",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint16(o))
}

// IsLaneOp reports whether o belongs to the lane-wise float family.
func (o Op) IsLaneOp() bool {
	return o >= OpFADD && o <= OpFDOT
}

// IsQALUOp reports whether o belongs to the QALU amplitude family.
func (o Op) IsQALUOp() bool {
	return o >= OpQAllocA && o <= OpQNormB
}

// NumSources returns how many source registers o reads.
func (o Op) NumSources() int {
	if o == OpFMADD {
		return 3
	}
	return 2
}

// Format represents the register encoding an instruction operates on.
type Format uint8

// Register formats.
const (
	FormatUnknown Format = iota
	FormatBF16           // 4 x bfloat16
	FormatFP16           // 4 x IEEE binary16
	FormatMSFP16         // 4 x sign+13-bit magnitude, shared 8-bit exponent
	FormatQALU           // tag + Q29 complex amplitude
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatBF16:    "bf16",
	FormatFP16:    "fp16",
	FormatMSFP16:  "msfp16",
	FormatQALU:    "qalu",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Instruction represents a decoded vector ALU instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Register encoding

	Rd string   // Destination register
	Rs []string // Source registers, in operand order
}

func (i *Instruction) String() string {
	mnemonic := i.Op.String()
	if i.Format != FormatQALU {
		mnemonic = strings.ToUpper(mnemonic) + "." + strings.ToUpper(i.Format.String())
	}
	return fmt.Sprintf("%s %s", mnemonic, strings.Join(append([]string{i.Rd}, i.Rs...), ", "))
}

// laneMnemonics maps the lane-wise mnemonic (before the format suffix).
var laneMnemonics = map[string]Op{
	"FADD":  OpFADD,
	"FSUB":  OpFSUB,
	"FMUL":  OpFMUL,
	"FMAX":  OpFMAX,
	"FMADD": OpFMADD,
	"FDOT":  OpFDOT,
}

var formatSuffixes = map[string]Format{
	"BF16":   FormatBF16,
	"FP16":   FormatFP16,
	"MSFP16": FormatMSFP16,
	"QALU":   FormatQALU,
}

// qaluMnemonics maps QALU mnemonics, including the short assembler
// spellings (QHA, QMEAS, ...).
var qaluMnemonics = map[string]Op{
	"ALLOC_A":     OpQAllocA,
	"ALLOC_B":     OpQAllocB,
	"H+":          OpQHPlus,
	"H-":          OpQHMinus,
	"SWAP_A":      OpQSwapA,
	"SWAP_B":      OpQSwapB,
	"PHASE":       OpQPhase,
	"MEASURE":     OpQMeasure,
	"NORMALIZE_A": OpQNormA,
	"NORMALIZE_B": OpQNormB,

	"QALLOC_A": OpQAllocA,
	"QALLOCA":  OpQAllocA,
	"QALLOC_B": OpQAllocB,
	"QALLOCB":  OpQAllocB,
	"QHA":      OpQHPlus,
	"QHB":      OpQHMinus,
	"QXA":      OpQSwapA,
	"QXB":      OpQSwapB,
	"QPHASE":   OpQPhase,
	"QMEAS":    OpQMeasure,
	"QNORMA":   OpQNormA,
	"QNORMB":   OpQNormB,
}

// Decoder decodes vector ALU assembly text into instructions.
type Decoder struct{}

// NewDecoder creates a new vector ALU instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a single line of assembly, e.g. "FADD.BF16 f1, f6, f7".
//
// An unrecognised mnemonic decodes to OpUnknown rather than failing, so the
// executor can report it as an unsupported operation. Text without a
// destination and at least one source is a decode error.
func (d *Decoder) Decode(line string) (*Instruction, error) {
	text := StripComment(line)
	if text == "" {
		return nil, fmt.Errorf("empty instruction")
	}

	mnemonic, rest := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		mnemonic, rest = text[:i], text[i+1:]
	}

	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}
	d.decodeMnemonic(strings.ToUpper(mnemonic), inst)

	operands, err := d.decodeOperands(rest)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", text, err)
	}
	inst.Rd = operands[0]
	inst.Rs = operands[1:]

	return inst, nil
}

func (d *Decoder) decodeMnemonic(mnemonic string, inst *Instruction) {
	if op, ok := qaluMnemonics[mnemonic]; ok {
		inst.Op = op
		inst.Format = FormatQALU
		return
	}

	base, suffix, found := strings.Cut(mnemonic, ".")
	if found {
		inst.Format = formatSuffixes[suffix]
		if op, ok := qaluMnemonics[base]; ok {
			inst.Op = op
			return
		}
	}

	if op, ok := laneMnemonics[base]; ok {
		inst.Op = op
	}
}

func (d *Decoder) decodeOperands(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("missing operands")
	}

	fields := strings.Split(text, ",")
	operands := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("malformed operand list %q", text)
		}
		operands = append(operands, name)
	}

	if len(operands) < 2 {
		return nil, fmt.Errorf("need a destination and at least one source")
	}

	return operands, nil
}

// StripComment removes a trailing ';' or '#' comment and surrounding space.
func StripComment(line string) string {
	if i := strings.IndexAny(line, ";#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
