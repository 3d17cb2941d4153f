// Package lzma implements the LZMA range-coded symbol decoder: the
// binary range coder (rangeCoder) and the probability-model-driven
// decoder (Decoder) that reconstructs a dictionary window from literal,
// match and rep operations.
//
// This package has no notion of the LZMA2 chunk framing; it decodes a
// raw LZMA bitstream into a caller-supplied or caller-owned dictionary
// window, stopping whenever the output limit is reached or the
// available input cannot support another full symbol. Package lzma2
// drives this decoder across chunk boundaries.
package lzma
