package lzma2

import "github.com/ascheglov/lzma2/lzma"

// chunkState is the byte-at-a-time parser for everything in a chunk
// header before its payload: the control byte, the two size fields,
// and (for LZMA chunks with a reset) the property byte.
type chunkState int

const (
	stateControl chunkState = iota
	stateUnpack0
	stateUnpack1
	statePack0
	statePack1
	stateProp
	stateData
	stateDataCont
	stateFinished
)

func (d *Decoder) isUncompressed() bool { return d.control&controlLZMA == 0 }

func (d *Decoder) lzmaMode() byte { return (d.control >> 5) & 3 }

// updateState consumes one header byte and returns the parser's next
// state, mirroring UpdateState in the reference decoder (spec.md §5).
func (d *Decoder) updateState(b byte) (chunkState, error) {
	switch d.state {
	case stateControl:
		d.control = b
		if d.control == controlEOF {
			return stateFinished, nil
		}
		if d.isUncompressed() {
			if d.control&0x7F > controlCopyNoReset {
				return stateControl, newError("invalid uncompressed chunk control byte")
			}
			d.unpackSize = 0
		} else {
			d.unpackSize = uint32(d.control&0x1F) << 16
		}
		return stateUnpack0, nil

	case stateUnpack0:
		d.unpackSize |= uint32(b) << 8
		return stateUnpack1, nil

	case stateUnpack1:
		d.unpackSize |= uint32(b)
		d.unpackSize++
		if d.isUncompressed() {
			return stateData, nil
		}
		return statePack0, nil

	case statePack0:
		d.packSize = uint32(b) << 8
		return statePack1, nil

	case statePack1:
		d.packSize |= uint32(b)
		d.packSize++
		if isThereProp(d.lzmaMode()) {
			return stateProp, nil
		}
		if d.needInitProp {
			return stateControl, newError("lzma chunk omitted properties before any were set")
		}
		return stateData, nil

	case stateProp:
		if b >= 9*5*5 {
			return stateControl, newError("property byte out of range")
		}
		x := int(b)
		lc := x % 9
		x /= 9
		pb := x / 5
		lp := x % 5
		if lc+lp > lzma.LCLPMax {
			return stateControl, newError("lc+lp exceeds 4")
		}
		d.core.Props.LC = lc
		d.core.Props.LP = lp
		d.core.Props.PB = pb
		d.needInitProp = false
		return stateData, nil

	default:
		return stateControl, newError("chunk parser reached an unreachable state")
	}
}
