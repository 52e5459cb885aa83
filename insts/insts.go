// Package insts provides the vector ALU instruction definitions and decoding.
//
// This package turns assembly text into structured instructions. It covers:
//   - Lane-wise float ops: FADD, FSUB, FMUL, FMAX, FMADD, FDOT with a
//     .BF16, .FP16 or .MSFP16 format suffix
//   - QALU amplitude ops: ALLOC_A/B, H+, H-, SWAP_A/B, PHASE, MEASURE,
//     NORMALIZE_A/B
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode("FMADD.BF16 f5, f14, f15, f16")
//	fmt.Printf("Op: %v, Format: %v, Rd: %s, Rs: %v\n", inst.Op, inst.Format, inst.Rd, inst.Rs)
package insts
