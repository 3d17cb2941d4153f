package lzma2

// Control byte layout (spec.md §5 "Chunk control byte"):
//
//	00000000            end of stream
//	00000001 U U        uncompressed, reset dictionary
//	00000010 U U        uncompressed, no reset
//	1mmuuuuu U U P P [S] lzma chunk; mm selects the reset mode
//
// U/P are the big-endian unpack/pack size fields (stored as value-1);
// S is the property byte, present only when mm>=2.
const (
	controlEOF          = 0
	controlCopyResetDic = 1
	controlCopyNoReset  = 2
	controlLZMA         = 1 << 7
)

// isThereProp reports whether an LZMA chunk's reset mode (0-3) carries
// a trailing property byte: modes 2 and 3 reset the LZMA state with a
// freshly supplied lc/lp/pb, mode 3 additionally resets the
// dictionary.
func isThereProp(mode byte) bool { return mode >= 2 }
