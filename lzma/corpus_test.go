package lzma

import (
	"os"
	"testing"
)

// genWalk reproduces spec.md §8's LCG drift generator bit-for-bit:
// lcg advances as a 64-bit linear congruential generator seeded at
// all-ones, and each step's byte (bits 32-39 of lcg) drifts last by
// (byte%r - r/2). It is used by the corpus tests below; lzma2's corpus
// tests carry an identical copy, building their fixtures from the same
// generator with different r/seed/length.
func genWalk(n int, r int, seed byte) []byte {
	lcg := uint64(0xFFFFFFFFFFFFFFFF)
	last := seed
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		lcg = lcg*6364136223846793005 + 1
		b := byte(lcg >> 32)
		drift := int(b)%r - r/2
		last = byte(int(last) + drift)
		out[i] = last
	}
	return out
}

// singleChunkPayload reads a raw LZMA2 stream from testdata that is
// known to hold exactly one LZMA-compressed chunk (mode 3: dictionary,
// state and properties all reset) followed by the end-of-stream
// control byte, and returns the chunk's declared unpacked size and its
// range-coded payload, stripped of the 6-byte LZMA2 chunk header. This
// lets the tests below drive lzma.Decoder directly, without going
// through the lzma2 framer, to exercise decodeReal/decodeReal2 against
// a real compressed bitstream at the package that owns them.
func singleChunkPayload(t *testing.T, path string) (unpackSize int, payload []byte) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	control := data[0]
	if control&0xE0 != 0xE0 {
		t.Fatalf("%s: control byte 0x%02x is not a full-reset LZMA chunk", path, control)
	}
	unpackSize = int(control&0x1F)<<16 | int(data[1])<<8 | int(data[2])
	unpackSize++
	packSize := int(data[3])<<8 | int(data[4])
	packSize++
	// header is control + 2 unpack-size bytes + 2 pack-size bytes + 1
	// property byte
	payload = data[6 : 6+packSize]
	return unpackSize, payload
}

func decodeSingleChunk(t *testing.T, path string) []byte {
	t.Helper()
	unpackSize, payload := singleChunkPayload(t, path)

	d := NewDecoder(LCLPMax)
	d.Props = Props{LC: 3, LP: 0, PB: 2}
	d.DicSize = 1 << 20
	d.Dict.Buf = make([]byte, unpackSize)

	consumed, status, err := d.DecodeToDic(unpackSize, payload, FinishEnd)
	if err != nil {
		t.Fatalf("%s: DecodeToDic: %v", path, err)
	}
	// An LZMA2 chunk carries no end-of-stream marker: its payload ends
	// exactly at the declared unpacked size with a zero range-coder code.
	if status != StatusMaybeFinishedWithoutMark {
		t.Fatalf("%s: status = %v, want MaybeFinishedWithoutMark", path, status)
	}
	if consumed != len(payload) {
		t.Fatalf("%s: consumed = %d, want %d", path, consumed, len(payload))
	}
	return d.Dict.Buf
}

// TestDecodeRealZeroFill feeds a genuine LZMA-compressed chunk (built
// by Python's stdlib raw-LZMA2 encoder, see lzma2/testdata) straight
// into Decoder.DecodeToDic, exercising decodeReal's literal and
// rep0-short-rep paths against a real bitstream rather than an
// uncompressed chunk or a bare range-coder preamble.
func TestDecodeRealZeroFill(t *testing.T) {
	got := decodeSingleChunk(t, "../lzma2/testdata/zero_fill_1024.lzma2")
	for i, b := range got {
		if b != 0 {
			t.Fatalf("byte %d = 0x%02x, want 0x00", i, b)
		}
	}
}

func TestDecodeRealConstantFill(t *testing.T) {
	got := decodeSingleChunk(t, "../lzma2/testdata/fill_0x55_1024.lzma2")
	for i, b := range got {
		if b != 0x55 {
			t.Fatalf("byte %d = 0x%02x, want 0x55", i, b)
		}
	}
}

// TestDecodeRealLCGDrift exercises the same literal path as
// TestDecodeRealZeroFill but against a stream built from spec.md §8's
// LCG drift generator (r=1), which degenerates to a constant 0xAA.
func TestDecodeRealLCGDrift(t *testing.T) {
	want := genWalk(1024, 1, 0xAA)
	got := decodeSingleChunk(t, "../lzma2/testdata/lcg_drift_1024.lzma2")
	if !bytesEqual(got, want) {
		t.Fatalf("decoded output does not match the LCG reference sequence")
	}
}

// TestDecodeRealRepeatedBlock decodes a chunk whose plaintext is a
// 4096-byte LCG walk repeated four times, forcing a real long-distance
// fresh match (distance 4096) followed by rep0 matches: this drives
// decodeReal's posSlot/distance decoding (spec.md §4.2.1), not just
// the short-rep and literal paths the fill fixtures exercise.
func TestDecodeRealRepeatedBlock(t *testing.T) {
	block := genWalk(4096, 256, 0x10)
	want := append(append(append(append([]byte{}, block...), block...), block...), block...)
	got := decodeSingleChunk(t, "../lzma2/testdata/repeated_block.lzma2")
	if !bytesEqual(got, want) {
		t.Fatalf("decoded output does not match the repeated-block reference sequence")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
