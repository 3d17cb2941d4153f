package lzma

// Minimum and maximum values for the individual LZMA properties, as used
// by the LZMA2 framing: lc+lp is additionally bound by LCLPMax.
const (
	MinLC = 0
	MaxLC = 8
	MinLP = 0
	MaxLP = 4
	MinPB = 0
	MaxPB = 4

	// LCLPMax is the maximum value of LC+LP that LZMA2 allows; the
	// probability array is always sized for this worst case so that
	// a chunk may change lc/lp without reallocating.
	LCLPMax = 4
)

// Props holds the three small LZMA properties that select context
// widths for literals (LC, LP) and the position mask for matches (PB).
type Props struct {
	LC int
	LP int
	PB int
}

// Validate checks the range invariants spec.md §3 requires: lc+lp<=4,
// pb<=4, and each individual value within its own bounds.
func (p Props) Validate() error {
	if !(MinLC <= p.LC && p.LC <= MaxLC) {
		return newError("lc out of range")
	}
	if !(MinLP <= p.LP && p.LP <= MaxLP) {
		return newError("lp out of range")
	}
	if !(MinPB <= p.PB && p.PB <= MaxPB) {
		return newError("pb out of range")
	}
	if p.LC+p.LP > LCLPMax {
		return newError("lc+lp exceeds 4")
	}
	return nil
}

// PropsFromByte decodes the classic LZMA property byte
// prop = (pb*5 + lp)*9 + lc into a Props value.
func PropsFromByte(b byte) (Props, error) {
	if b >= 9*5*5 {
		return Props{}, newError("property byte out of range")
	}
	x := int(b)
	lc := x % 9
	x /= 9
	lp := x % 5
	pb := x / 5
	p := Props{LC: lc, LP: lp, PB: pb}
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}
