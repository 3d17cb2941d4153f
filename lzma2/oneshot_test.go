package lzma2

import (
	"testing"

	"github.com/ascheglov/lzma2/lzma"
)

func TestDecodeOneShot(t *testing.T) {
	dest := make([]byte, 8)
	destLen, status, err := Decode(dest, testStrChunk, 0x18, lzma.FinishEnd)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if status != lzma.StatusFinishedWithMark {
		t.Fatalf("status = %v, want FinishedWithMark", status)
	}
	if got := string(dest[:destLen]); got != "test_str" {
		t.Fatalf("output = %q, want %q", got, "test_str")
	}
}
