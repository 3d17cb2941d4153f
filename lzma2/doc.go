// Package lzma2 decodes the LZMA2 chunk format: a sequence of small
// framed chunks, each either stored verbatim or compressed with the
// LZMA algorithm implemented in the sibling lzma package, sharing one
// dictionary window and one set of LZMA properties across chunk
// boundaries until a chunk's control byte says otherwise.
//
// Decoder implements the resumable, caller-owned-dictionary streaming
// contract; BufferedDecoder wraps it with a dictionary the decoder
// owns itself, for callers that would rather receive decoded bytes
// into their own arbitrary-size buffer than manage a dictionary
// window; Decode is a one-shot front end over a fully-sized
// destination slice; Reader adapts BufferedDecoder to io.Reader.
package lzma2
