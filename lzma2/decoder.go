package lzma2

import (
	"github.com/ascheglov/lzma2/lzma"
	"github.com/ascheglov/lzma2/xlog"
)

// Decoder decodes an LZMA2 chunk stream into a caller-owned
// dictionary window (spec.md §5, §6). It never allocates the window
// itself; set Dict().Buf before the first DecodeToDic call, the same
// way lzma.Decoder expects.
//
// A Decoder is resumable: DecodeToDic may be called repeatedly with
// whatever input and output room happens to be available. It may stop
// between any two chunk-header bytes or inside a chunk's payload, and
// keeps enough parser state to continue from there on the next call.
type Decoder struct {
	core lzma.Decoder

	state      chunkState
	control    byte
	unpackSize uint32
	packSize   uint32

	needInitDic   bool
	needInitState bool
	needInitProp  bool

	Logger xlog.Logger
}

// NewDecoder creates a Decoder for the given LZMA2 dictionary-size
// property (spec.md §5). The caller must still point Dict().Buf at a
// window at least DicSizeFromProp(prop) bytes long (or, for prop 40,
// as large as the caller is willing to allow back-references into)
// before the first DecodeToDic call.
func NewDecoder(prop byte) (*Decoder, error) {
	if prop > 40 {
		return nil, newError("dictionary-size property out of range")
	}
	d := &Decoder{core: *lzma.NewDecoder(lzma.LCLPMax)}
	d.core.Props = lzma.Props{LC: lzma.LCLPMax, LP: 0, PB: 0}
	d.core.DicSize = DicSizeFromProp(prop)
	d.Reset()
	return d, nil
}

// Dict returns the dictionary window the decoder reads and writes.
// Replace Buf (and reset Pos to 0) only together with a call to
// Reset, matching how a fresh LZMA2 stream always begins with a
// dictionary-reset chunk.
func (d *Decoder) Dict() *lzma.Dict { return &d.core.Dict }

// Reset restarts chunk parsing from a clean dictionary and LZMA
// state, as required at the start of every independent LZMA2 stream.
func (d *Decoder) Reset() {
	d.state = stateControl
	d.needInitDic = true
	d.needInitState = true
	d.needInitProp = true
	d.core.Dict.Pos = 0
	d.core.Reset(true, true)
	d.core.Logger = d.Logger
}

// DecodeToDic decodes chunks into the dictionary window until dicLimit
// is reached or the end-of-stream control byte is parsed, consuming
// only as much of src as it can act on (spec.md §6).
func (d *Decoder) DecodeToDic(dicLimit int, src []byte, finish lzma.FinishMode) (consumed int, status lzma.Status, err error) {
	d.core.Logger = d.Logger
	srcPos := 0

	for d.state != stateFinished {
		dicPos := d.core.Dict.Pos

		if (d.state == stateData || d.state == stateDataCont) && dicPos == dicLimit && finish == lzma.FinishAny {
			return srcPos, lzma.StatusNotFinished, nil
		}

		if d.state != stateData && d.state != stateDataCont {
			if srcPos == len(src) {
				return srcPos, lzma.StatusNeedsMoreInput, nil
			}
			b := src[srcPos]
			srcPos++
			next, err := d.updateState(b)
			if err != nil {
				return srcPos, lzma.StatusNotSpecified, err
			}
			d.state = next
			continue
		}

		destSizeCur := dicLimit - dicPos
		srcSizeCur := len(src) - srcPos
		curFinish := lzma.FinishAny
		if int(d.unpackSize) <= destSizeCur {
			destSizeCur = int(d.unpackSize)
			curFinish = lzma.FinishEnd
		}

		if d.isUncompressed() {
			if srcPos == len(src) {
				return srcPos, lzma.StatusNeedsMoreInput, nil
			}

			if d.state == stateData {
				initDic := d.control == controlCopyResetDic
				if initDic {
					d.needInitProp = true
					d.needInitState = true
				} else if d.needInitDic {
					return srcPos, lzma.StatusNotSpecified, newError("uncompressed chunk requires a dictionary reset that never happened")
				}
				d.needInitDic = false
				d.core.Reset(initDic, false)
			}

			if srcSizeCur > destSizeCur {
				srcSizeCur = destSizeCur
			}
			if srcSizeCur == 0 {
				return srcPos, lzma.StatusNotSpecified, newError("uncompressed chunk has no room to write into")
			}

			d.core.UpdateWithUncompressed(src[srcPos : srcPos+srcSizeCur])
			srcPos += srcSizeCur
			d.unpackSize -= uint32(srcSizeCur)
			if d.unpackSize == 0 {
				d.state = stateControl
			} else {
				d.state = stateDataCont
			}
			continue
		}

		if d.state == stateData {
			mode := d.lzmaMode()
			initDic := mode == 3
			initState := mode > 0
			if (!initDic && d.needInitDic) || (!initState && d.needInitState) {
				return srcPos, lzma.StatusNotSpecified, newError("lzma chunk requires a reset that was never signaled")
			}
			d.core.Reset(initDic, initState)
			d.needInitDic = false
			d.needInitState = false
			d.state = stateDataCont
		}

		if srcSizeCur > int(d.packSize) {
			srcSizeCur = int(d.packSize)
		}

		innerConsumed, innerStatus, err := d.core.DecodeToDic(dicPos+destSizeCur, src[srcPos:srcPos+srcSizeCur], curFinish)
		srcPos += innerConsumed
		d.packSize -= uint32(innerConsumed)

		outProcessed := d.core.Dict.Pos - dicPos
		d.unpackSize -= uint32(outProcessed)

		if err != nil {
			return srcPos, innerStatus, err
		}
		if innerStatus == lzma.StatusNeedsMoreInput {
			return srcPos, innerStatus, nil
		}

		if innerConsumed == 0 && outProcessed == 0 {
			if innerStatus != lzma.StatusMaybeFinishedWithoutMark || d.unpackSize != 0 || d.packSize != 0 {
				return srcPos, lzma.StatusNotSpecified, newError("chunk payload ended without producing data or consuming input")
			}
			d.state = stateControl
		}
	}

	return srcPos, lzma.StatusFinishedWithMark, nil
}
