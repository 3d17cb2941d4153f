package lzma2

import "github.com/ascheglov/lzma2/lzma"

// Decode decompresses a complete LZMA2 stream into dest in a single
// call, mirroring the reference implementation's one-call interface.
// dest must already be sized to hold the entire decompressed output;
// Decode uses it directly as the dictionary window. Back-reference
// distances are still checked against the dictionary size that prop
// implies, not against len(dest).
func Decode(dest, src []byte, prop byte, finish lzma.FinishMode) (destLen int, status lzma.Status, err error) {
	d, err := NewDecoder(prop)
	if err != nil {
		return 0, lzma.StatusNotSpecified, err
	}
	d.core.Dict.Buf = dest

	_, status, err = d.DecodeToDic(len(dest), src, finish)
	return d.core.Dict.Pos, status, err
}
