package lzma

// FinishMode tells DecodeToDic what to do when the output limit is
// reached (spec.md §6).
type FinishMode int

const (
	// FinishAny stops as soon as the output limit (dicLimit) is
	// reached, regardless of whether an end-of-stream marker follows.
	FinishAny FinishMode = iota
	// FinishEnd requires the stream to carry its end-of-stream marker
	// immediately after the output limit is reached, unless the
	// range-coder code is already zero there, in which case
	// StatusMaybeFinishedWithoutMark is reported instead.
	FinishEnd
)

// Status reports why a streaming decode call returned.
type Status int

const (
	// StatusNotSpecified is the zero value; decode calls return it
	// together with a non-nil error.
	StatusNotSpecified Status = iota
	// StatusFinishedWithMark reports that the stream ended with its
	// end-of-stream marker and the range coder's residual code is zero.
	StatusFinishedWithMark
	// StatusNotFinished reports that dicLimit was reached under
	// FinishAny before the stream finished.
	StatusNotFinished
	// StatusNeedsMoreInput reports that more input bytes are required
	// to make further progress.
	StatusNeedsMoreInput
	// StatusMaybeFinishedWithoutMark reports that the symbol decoder
	// reached its output limit exactly at a symbol boundary with zero
	// range-coder residue; only the LZMA2 framer interprets this as
	// "end of chunk", never as stream completion.
	StatusMaybeFinishedWithoutMark
)

func (s Status) String() string {
	switch s {
	case StatusFinishedWithMark:
		return "FinishedWithMark"
	case StatusNotFinished:
		return "NotFinished"
	case StatusNeedsMoreInput:
		return "NeedsMoreInput"
	case StatusMaybeFinishedWithoutMark:
		return "MaybeFinishedWithoutMark"
	default:
		return "NotSpecified"
	}
}
