package lzma2

import (
	"io"

	"github.com/ascheglov/lzma2/lzma"
)

// Reader adapts a BufferedDecoder to io.Reader, filling its own
// pending-input buffer from src on demand, the same read-fill-decode
// loop the standard library's compress/* readers use.
type Reader struct {
	d       *BufferedDecoder
	src     io.Reader
	pending []byte
	off     int
	srcEOF  bool
	err     error
}

// NewReader wraps src, an LZMA2 byte stream using the given
// dictionary-size property (spec.md §5).
func NewReader(src io.Reader, dictSizeProp byte) (*Reader, error) {
	d, err := NewBufferedDecoder(dictSizeProp)
	if err != nil {
		return nil, err
	}
	return &Reader{d: d, src: src, pending: nil}, nil
}

func (r *Reader) fill() error {
	buf := make([]byte, 32*1024)
	n, err := r.src.Read(buf)
	r.pending = buf[:n]
	r.off = 0
	if err != nil {
		if err == io.EOF {
			r.srcEOF = true
			return nil
		}
		return err
	}
	return nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	for {
		destLen, srcLen, status, err := r.d.DecodeToBuf(p, r.pending[r.off:], lzma.FinishAny)
		r.off += srcLen
		if err != nil {
			r.err = err
			return destLen, err
		}
		if destLen > 0 {
			return destLen, nil
		}
		if status == lzma.StatusFinishedWithMark {
			r.err = io.EOF
			return 0, io.EOF
		}

		if r.off < len(r.pending) {
			// DecodeToBuf stopped with leftover pending input only
			// because p had no room; with destLen==0 above that can't
			// happen for a zero-length p, but guard against spinning.
			if len(p) == 0 {
				return 0, nil
			}
			continue
		}

		if r.srcEOF {
			r.err = io.ErrUnexpectedEOF
			return 0, r.err
		}
		if err := r.fill(); err != nil {
			r.err = err
			return 0, err
		}
	}
}
