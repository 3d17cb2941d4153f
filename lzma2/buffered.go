package lzma2

import "github.com/ascheglov/lzma2/lzma"

// BufferedDecoder wraps Decoder with a dictionary window it allocates
// and owns itself, sized from the stream's dictionary-size property,
// so a caller can decode into buffers of whatever size is convenient
// without managing the window (spec.md §6 "caller-owned dictionary
// vs internal-dictionary front ends").
//
// Property 40 (a 4 GiB dictionary) is rejected at construction time;
// nothing in this package needs a window anywhere near that size, and
// allocating one by surprise on a malformed or adversarial prop byte
// is not a risk worth taking.
type BufferedDecoder struct {
	Decoder
}

// NewBufferedDecoder allocates a BufferedDecoder for the given
// dictionary-size property.
func NewBufferedDecoder(prop byte) (*BufferedDecoder, error) {
	if prop == 40 {
		return nil, newError("dictionary-size property 40 (4 GiB) is not supported by the buffered decoder")
	}
	d, err := NewDecoder(prop)
	if err != nil {
		return nil, err
	}
	bd := &BufferedDecoder{Decoder: *d}
	bd.core.Dict.Buf = make([]byte, bd.core.DicSize)
	return bd, nil
}

// DecodeToBuf decodes into dest, wrapping the internal dictionary
// window as needed and copying out whatever it produces, consuming
// from src only as far as dest has room for (spec.md §6). It returns
// as soon as either buffer is exhausted or the stream reports it is
// finished.
func (bd *BufferedDecoder) DecodeToBuf(dest, src []byte, finish lzma.FinishMode) (destLen, srcLen int, status lzma.Status, err error) {
	outSize := len(dest)
	srcPos := 0
	destPos := 0

	for {
		if bd.core.Dict.Pos == len(bd.core.Dict.Buf) {
			bd.core.Dict.Pos = 0
		}
		dicPos := bd.core.Dict.Pos

		var outSizeCur int
		var curFinish lzma.FinishMode
		if outSize > len(bd.core.Dict.Buf)-dicPos {
			outSizeCur = len(bd.core.Dict.Buf)
			curFinish = lzma.FinishAny
		} else {
			outSizeCur = dicPos + outSize
			curFinish = finish
		}

		consumed, st, derr := bd.DecodeToDic(outSizeCur, src[srcPos:], curFinish)
		srcPos += consumed
		srcLen += consumed
		status = st
		err = derr

		produced := bd.core.Dict.Pos - dicPos
		copy(dest[destPos:], bd.core.Dict.Buf[dicPos:dicPos+produced])
		destPos += produced
		destLen += produced
		outSize -= produced

		if err != nil || produced == 0 || outSize == 0 {
			return destLen, srcLen, status, err
		}
	}
}
