package numfmt

// LaneCount is the number of lanes in every vector register.
const LaneCount = 4

// RegisterBits is the width of every register word.
const RegisterBits = 64

// Lane16Width is the slot width of the bf16 and fp16 layouts.
const Lane16Width = 16

// Lanes holds the decoded value of each lane, lane 0 first.
type Lanes [LaneCount]float64

// Lane16 extracts 16-bit lane i from word. Lane 0 is the least significant.
func Lane16(word uint64, i int) uint16 {
	return uint16(word >> (uint(i) * Lane16Width))
}

// SetLane16 returns word with 16-bit lane i replaced by v.
func SetLane16(word uint64, i int, v uint16) uint64 {
	shift := uint(i) * Lane16Width
	mask := uint64(0xFFFF) << shift
	return (word &^ mask) | uint64(v)<<shift
}

// UnpackLanes16 splits word into its four 16-bit lanes.
func UnpackLanes16(word uint64) [LaneCount]uint16 {
	var out [LaneCount]uint16
	for i := range out {
		out[i] = Lane16(word, i)
	}
	return out
}

// PackLanes16 joins four 16-bit lanes into one word.
func PackLanes16(lanes [LaneCount]uint16) uint64 {
	var word uint64
	for i, v := range lanes {
		word = SetLane16(word, i, v)
	}
	return word
}
