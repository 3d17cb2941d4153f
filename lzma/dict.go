package lzma

// Dict is the sliding-window dictionary buffer that decoded bytes are
// written into and that back-references read from (spec.md §3
// "Dictionary window (Dic)").
//
// Buf's length is the window's capacity. Pos is the write cursor; it
// never exceeds len(Buf). Buf may be owned by the caller (one-shot and
// caller-buffer streaming front ends) or by the decoder (the buffered
// front end); either way Pos belongs to whichever decoder call is
// currently in progress.
type Dict struct {
	Buf []byte
	Pos int
}

// byteBack returns the byte "back" positions behind Pos, wrapping
// around the end of Buf. back must be >= 1; back==1 is the most
// recently written byte. This matches the rep distance encoding
// (reps[i] already holds distance+1, so a rep value is used as back
// directly).
func (d *Dict) byteBack(back uint32) byte {
	pos := d.Pos - int(back)
	if pos < 0 {
		pos += len(d.Buf)
	}
	return d.Buf[pos]
}

// copyMatch copies length bytes from back positions behind Pos into
// the window at Pos, handling wraparound and self-overlap, and
// advances Pos by length.
//
// The copy proceeds byte by byte in ascending order so that a
// just-written byte can feed a subsequent read when back < length
// (spec.md §9 "Self-overlapping copy"); this is required correctness,
// not an optimization, so a block-copy primitive must not be
// substituted here.
func (d *Dict) copyMatch(back uint32, length int) {
	size := len(d.Buf)
	src := d.Pos - int(back)
	if src < 0 {
		src += size
	}
	for ; length > 0; length-- {
		d.Buf[d.Pos] = d.Buf[src]
		d.Pos++
		src++
		if src == size {
			src = 0
		}
	}
}
