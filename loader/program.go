// Package loader provides program loading for the vector ALU emulator.
//
// A program file is JSON holding the initial register contents and the
// instruction list:
//
//	{
//	  "registers":    {"f6": "0x3e00c00034005640"},
//	  "amplitudes":   {"q0": {"tag": 0, "real": 1.0, "imag": 0.0}},
//	  "instructions": ["FADD.BF16 f1, f6, f7", "H+ q2, q0, q1"]
//	}
//
// Registers take raw 64-bit words; amplitudes are packed into QALU words.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sarchlab/valu/emu"
	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/numfmt"
)

// AmplitudeSeed is the JSON form of one QALU register.
type AmplitudeSeed struct {
	Tag  uint8   `json:"tag"`
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

type programFile struct {
	Registers    map[string]string        `json:"registers"`
	Amplitudes   map[string]AmplitudeSeed `json:"amplitudes"`
	Instructions []string                 `json:"instructions"`
}

// Program represents a loaded program ready for execution.
type Program struct {
	// Registers holds the initial register words, amplitudes included.
	Registers map[string]uint64
	// Instructions is the decoded instruction list in program order.
	Instructions []*insts.Instruction
	// Source holds the instruction text each entry was decoded from.
	Source []string
}

// Load reads and parses a program file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	prog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return prog, nil
}

// Parse parses a program from JSON. Blank and comment-only instruction lines
// are skipped.
func Parse(data []byte) (*Program, error) {
	var file programFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}

	prog := &Program{Registers: make(map[string]uint64)}

	for _, name := range sortedKeys(file.Registers) {
		v, err := strconv.ParseUint(file.Registers[name], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse register %q: %w", name, err)
		}
		prog.Registers[name] = v
	}

	for _, name := range sortedKeys(file.Amplitudes) {
		if _, dup := prog.Registers[name]; dup {
			return nil, fmt.Errorf("register %q is seeded twice", name)
		}
		seed := file.Amplitudes[name]
		if seed.Tag > numfmt.QALUMaxTag {
			return nil, fmt.Errorf("amplitude %q: tag %d exceeds %d",
				name, seed.Tag, numfmt.QALUMaxTag)
		}
		prog.Registers[name] = numfmt.PackAmplitude(numfmt.Amplitude{
			Tag:  seed.Tag,
			Real: seed.Real,
			Imag: seed.Imag,
		})
	}

	decoder := insts.NewDecoder()
	for i, line := range file.Instructions {
		if insts.StripComment(line) == "" {
			continue
		}

		inst, err := decoder.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i+1, err)
		}

		prog.Instructions = append(prog.Instructions, inst)
		prog.Source = append(prog.Source, insts.StripComment(line))
	}

	return prog, nil
}

// RegFile returns a fresh register file seeded with the program's registers.
func (p *Program) RegFile() *emu.RegFile {
	rf := emu.NewRegFile()
	for name, v := range p.Registers {
		rf.WriteReg(name, v)
	}
	return rf
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
