package lzma

import "github.com/ascheglov/lzma2/xlog"

// Decoder is a single LZMA symbol decoder: the range coder, the
// probability table, and the four most-recent match distances (the
// "rep" slots), all driven against a caller-supplied Dict (spec.md §3,
// §4).
//
// A Decoder never allocates or grows its own dictionary; Dict.Buf is
// set by whichever front end owns it (lzma2's buffered decoder, or a
// caller driving DecodeToDic directly) before the first call.
type Decoder struct {
	Dict  Dict
	Props Props

	// DicSize is the LZMA2 dictionary-size property; it bounds how far
	// back a match distance may reach until the dictionary has been
	// filled that far (the checkDicSize bookkeeping below).
	DicSize uint32

	Logger xlog.Logger

	probs []prob
	rc    rangeCoder

	state int
	reps  [4]uint32

	processedPos uint32
	checkDicSize uint32
	remainLen    uint32

	needFlush     bool
	needInitState bool

	tempBuf     [reqInputMax]byte
	tempBufSize int
}

// NewDecoder allocates a Decoder whose probability table is sized for
// the given maximum lc+lp; LZMA2 always passes LCLPMax so that a
// chunk's properties can change without reallocating (spec.md §3).
func NewDecoder(maxLCPlusLP int) *Decoder {
	d := &Decoder{probs: make([]prob, numProbs(maxLCPlusLP))}
	d.Reset(true, true)
	return d
}

// Reset mirrors InitDicAndState: it always clears the pending-flush and
// leftover-lookahead state, and additionally reinitializes processedPos
// tracking (initDic) and/or the probability table and reps (initState)
// on the next decode call.
func (d *Decoder) Reset(initDic, initState bool) {
	d.needFlush = true
	d.remainLen = 0
	d.tempBufSize = 0

	if initDic {
		d.processedPos = 0
		d.checkDicSize = 0
		d.needInitState = true
	}
	if initState {
		d.needInitState = true
	}
}

func (d *Decoder) initStateReal() {
	resetProbs(d.probs[:numProbs(d.Props.LC+d.Props.LP)])
	d.reps = [4]uint32{1, 1, 1, 1}
	d.state = 0
	d.needInitState = false
}

// UpdateWithUncompressed advances the dictionary and processedPos
// bookkeeping for a chunk copied verbatim, without touching the range
// coder or probability table (spec.md §6 "uncompressed chunks update
// Dic and processedPos directly").
func (d *Decoder) UpdateWithUncompressed(src []byte) {
	copy(d.Dict.Buf[d.Dict.Pos:], src)
	d.Dict.Pos += len(src)

	if d.checkDicSize == 0 && d.DicSize-d.processedPos <= uint32(len(src)) {
		d.checkDicSize = d.DicSize
	}
	d.processedPos += uint32(len(src))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// decodeReal decodes symbols starting at data[pos] into d.Dict until
// either d.Dict.Pos reaches limit or pos reaches bufLimit, decoding at
// least one symbol regardless. It returns the advanced position.
//
// All decoder state (state, reps, processedPos, checkDicSize,
// remainLen) is written back to d before returning, including on the
// end-of-stream-marker path, which exits the loop immediately without
// attempting a match copy.
func (d *Decoder) decodeReal(limit int, data []byte, pos int, bufLimit int) (int, error) {
	rc := &d.rc
	probs := d.probs
	state := d.state
	rep0, rep1, rep2, rep3 := d.reps[0], d.reps[1], d.reps[2], d.reps[3]
	pbMask := uint32(1)<<uint(d.Props.PB) - 1
	lpMask := uint32(1)<<uint(d.Props.LP) - 1
	lc := uint(d.Props.LC)
	processedPos := d.processedPos
	checkDicSize := d.checkDicSize
	length := uint32(0)

symbolLoop:
	for {
		posState := processedPos & pbMask
		var bit uint32

		bit, pos = rc.decodeBit(&probs[isMatchOff+(state<<numPosBitsMax)+int(posState)], data, pos)
		if bit == 0 {
			litProbs := literalOff
			if checkDicSize != 0 || processedPos != 0 {
				prevByte := uint32(d.Dict.byteBack(1))
				litProbs += litSize * int(((processedPos&lpMask)<<lc)+prevByte>>(8-lc))
			}

			symbol := uint32(1)
			if state < numLitStates {
				if state < 4 {
					state = 0
				} else {
					state -= 3
				}
				for symbol < 0x100 {
					bit, pos = rc.decodeBit(&probs[litProbs+int(symbol)], data, pos)
					symbol = symbol<<1 | bit
				}
			} else {
				if state < 10 {
					state -= 3
				} else {
					state -= 6
				}
				matchByte := uint32(d.Dict.byteBack(rep0))
				offs := uint32(0x100)
				for symbol < 0x100 {
					matchByte <<= 1
					sel := matchByte & offs
					bit, pos = rc.decodeBit(&probs[litProbs+int(offs+sel+symbol)], data, pos)
					symbol = symbol<<1 | bit
					if bit != 0 {
						offs &= sel
					} else {
						offs &^= sel
					}
				}
			}

			d.Dict.Buf[d.Dict.Pos] = byte(symbol)
			d.Dict.Pos++
			processedPos++
		} else {
			var lenBase int
			isShortRep := false

			bit, pos = rc.decodeBit(&probs[isRepOff+state], data, pos)
			if bit == 0 {
				state += numStates
				lenBase = lenCoderOff
			} else {
				if checkDicSize == 0 && processedPos == 0 {
					return pos, newError("back-reference before any data was produced")
				}
				bit, pos = rc.decodeBit(&probs[isRepG0Off+state], data, pos)
				if bit == 0 {
					bit, pos = rc.decodeBit(&probs[isRep0LongOff+(state<<numPosBitsMax)+int(posState)], data, pos)
					if bit == 0 {
						d.Dict.Buf[d.Dict.Pos] = d.Dict.byteBack(rep0)
						d.Dict.Pos++
						processedPos++
						if state < numLitStates {
							state = 9
						} else {
							state = 11
						}
						isShortRep = true
					}
				} else {
					var distance uint32
					bit, pos = rc.decodeBit(&probs[isRepG1Off+state], data, pos)
					if bit == 0 {
						distance = rep1
					} else {
						bit, pos = rc.decodeBit(&probs[isRepG2Off+state], data, pos)
						if bit == 0 {
							distance = rep2
						} else {
							distance = rep3
							rep3 = rep2
						}
						rep2 = rep1
					}
					rep1 = rep0
					rep0 = distance
				}
				if !isShortRep {
					if state < numLitStates {
						state = 8
					} else {
						state = 11
					}
					lenBase = repLenCoderOff
				}
			}

			if !isShortRep {
				var lenOffset, lenBits, lenProbsOff int
				bit, pos = rc.decodeBit(&probs[lenBase+lenChoice], data, pos)
				if bit == 0 {
					lenProbsOff = lenBase + lenLow + int(posState)<<lenNumLowBits
					lenOffset = 0
					lenBits = lenNumLowBits
				} else {
					bit, pos = rc.decodeBit(&probs[lenBase+lenChoice2], data, pos)
					if bit == 0 {
						lenProbsOff = lenBase + lenMid + int(posState)<<lenNumMidBits
						lenOffset = lenNumLowSymbols
						lenBits = lenNumMidBits
					} else {
						lenProbsOff = lenBase + lenHigh
						lenOffset = lenNumLowSymbols + lenNumMidSymbols
						lenBits = lenNumHighBits
					}
				}
				var lenSym uint32
				lenSym, pos = treeDecode(rc, probs[lenProbsOff:], lenBits, data, pos)
				length = lenSym + uint32(lenOffset)

				if state >= numStates {
					slotBase := posSlotOff + minInt(int(length), numLenToPosStates-1)<<numPosSlotBits
					var posSlot uint32
					posSlot, pos = treeDecode(rc, probs[slotBase:], numPosSlotBits, data, pos)
					distance := posSlot
					if posSlot >= startPosModelIndex {
						numDirectBits := int(posSlot>>1) - 1
						distance = 2 | (posSlot & 1)
						if posSlot < endPosModelIndex {
							distance <<= uint(numDirectBits)
							specBase := specPosOff + int(distance) - int(posSlot) - 1
							var rev uint32
							rev, pos = reverseTreeDecode(rc, probs[specBase:], numDirectBits, data, pos)
							distance += rev
						} else {
							numDirectBits -= numAlignBits
							for i := 0; i < numDirectBits; i++ {
								var db uint32
								db, pos = rc.decodeDirectBit(data, pos)
								distance = distance<<1 | db
							}
							var alignSym uint32
							alignSym, pos = reverseTreeDecode(rc, probs[alignOff:], numAlignBits, data, pos)
							distance = distance<<uint(numAlignBits) | alignSym
							if distance == 0xFFFFFFFF {
								length += matchSpecLenStart
								state -= numStates
								break symbolLoop
							}
						}
					}

					if checkDicSize == 0 {
						if distance >= processedPos {
							return pos, newError("back-reference distance exceeds produced data")
						}
					} else if distance >= checkDicSize {
						return pos, newError("back-reference distance exceeds dictionary size")
					}

					rep3 = rep2
					rep2 = rep1
					rep1 = rep0
					rep0 = distance + 1

					if state < numStates+numLitStates {
						state = numLitStates
					} else {
						state = numLitStates + 3
					}
				}

				length += matchMinLen

				if limit == d.Dict.Pos {
					return pos, newError("match starts exactly at the output limit")
				}

				rem := limit - d.Dict.Pos
				curLen := int(length)
				if rem < curLen {
					curLen = rem
				}
				d.Dict.copyMatch(rep0, curLen)
				processedPos += uint32(curLen)
				length -= uint32(curLen)
			}
		}

		if d.Dict.Pos >= limit || pos >= bufLimit {
			break
		}
	}

	pos = rc.normalize(data, pos)

	d.state = state
	d.reps[0], d.reps[1], d.reps[2], d.reps[3] = rep0, rep1, rep2, rep3
	d.processedPos = processedPos
	d.checkDicSize = checkDicSize
	d.remainLen = length
	return pos, nil
}

// decodeReal2 repeatedly calls decodeReal, clamping each call's output
// limit to the point where the dictionary has only just been filled to
// DicSize (so checkDicSize can be latched exactly once that happens),
// until the dictionary or input boundary is reached or a symbol leaves
// remainLen at matchSpecLenStart or above (truncated match, or the
// end-of-stream marker).
func (d *Decoder) decodeReal2(limit int, data []byte, pos int, bufLimit int) (int, error) {
	for {
		limit2 := limit
		if d.checkDicSize == 0 {
			rem := d.DicSize - d.processedPos
			if uint32(limit-d.Dict.Pos) > rem {
				limit2 = d.Dict.Pos + int(rem)
			}
		}

		var err error
		pos, err = d.decodeReal(limit2, data, pos, bufLimit)
		if err != nil {
			return pos, err
		}

		if d.processedPos >= d.DicSize {
			d.checkDicSize = d.DicSize
		}

		d.writeRem(limit)

		if !(d.Dict.Pos < limit && pos < bufLimit && d.remainLen < matchSpecLenStart) {
			break
		}
	}

	if d.remainLen > matchSpecLenStart {
		d.remainLen = matchSpecLenStart
	}
	return pos, nil
}

// writeRem flushes whatever is left of a match that decodeReal had to
// truncate at a previous output limit, continuing the copy now that
// limit may have moved further out.
func (d *Decoder) writeRem(limit int) {
	if d.remainLen == 0 || d.remainLen >= matchSpecLenStart {
		return
	}

	length := int(d.remainLen)
	if limit-d.Dict.Pos < length {
		length = limit - d.Dict.Pos
	}

	if d.checkDicSize == 0 && d.DicSize-d.processedPos <= uint32(length) {
		d.checkDicSize = d.DicSize
	}

	d.processedPos += uint32(length)
	d.remainLen -= uint32(length)
	d.Dict.copyMatch(d.reps[0], length)
}

// dummyKind classifies what TryDummy speculatively found without
// mutating decoder state, so DecodeToDic can decide whether enough
// input is buffered and, at the output limit, whether what follows can
// possibly be the end-of-stream marker.
type dummyKind int

const (
	dummyError dummyKind = iota
	dummyLiteral
	dummyMatch
	dummyRep
)

// tryDummy speculatively decodes the first symbol's worth of bits from
// data without touching the probability table or d's persistent range
// coder, reporting whether enough input is present to do so (spec.md
// §9 "speculative lookahead"). Only a fresh match (dummyMatch) can be
// the end-of-stream marker; dummyRep never is, so DecodeToDic must not
// fold the two together.
func (d *Decoder) tryDummy(data []byte) dummyKind {
	rc := d.rc
	probs := d.probs
	state := d.state
	pos := 0

	peekBit := func(p prob) (bit uint32, ok bool) {
		bit, pos, ok = rc.peekBit(p, data, pos)
		return bit, ok
	}

	posState := d.processedPos & (uint32(1)<<uint(d.Props.PB) - 1)

	bit, ok := peekBit(probs[isMatchOff+(state<<numPosBitsMax)+int(posState)])
	if !ok {
		return dummyError
	}
	if bit == 0 {
		litProbs := literalOff
		if d.checkDicSize != 0 || d.processedPos != 0 {
			prevByte := uint32(d.Dict.byteBack(1))
			lpMask := uint32(1)<<uint(d.Props.LP) - 1
			litProbs += litSize * int(((d.processedPos&lpMask)<<uint(d.Props.LC))+prevByte>>(8-uint(d.Props.LC)))
		}

		symbol := uint32(1)
		if state < numLitStates {
			for symbol < 0x100 {
				bit, ok = peekBit(probs[litProbs+int(symbol)])
				if !ok {
					return dummyError
				}
				symbol = symbol<<1 | bit
			}
		} else {
			matchByte := uint32(d.Dict.byteBack(d.reps[0]))
			offs := uint32(0x100)
			for symbol < 0x100 {
				matchByte <<= 1
				sel := matchByte & offs
				bit, ok = peekBit(probs[litProbs+int(offs+sel+symbol)])
				if !ok {
					return dummyError
				}
				symbol = symbol<<1 | bit
				if bit != 0 {
					offs &= sel
				} else {
					offs &^= sel
				}
			}
		}
		if rc.rng < topValue && pos >= len(data) {
			return dummyError
		}
		return dummyLiteral
	}

	res := dummyMatch
	var lenBase int
	bit, ok = peekBit(probs[isRepOff+state])
	if !ok {
		return dummyError
	}
	if bit == 0 {
		state = 0
		lenBase = lenCoderOff
	} else {
		res = dummyRep
		bit, ok = peekBit(probs[isRepG0Off+state])
		if !ok {
			return dummyError
		}
		if bit == 0 {
			bit, ok = peekBit(probs[isRep0LongOff+(state<<numPosBitsMax)+int(posState)])
			if !ok {
				return dummyError
			}
			if bit == 0 {
				if rc.rng < topValue && pos >= len(data) {
					return dummyError
				}
				return dummyRep
			}
		} else {
			bit, ok = peekBit(probs[isRepG1Off+state])
			if !ok {
				return dummyError
			}
			if bit != 0 {
				bit, ok = peekBit(probs[isRepG2Off+state])
				if !ok {
					return dummyError
				}
			}
		}
		state = numStates
		lenBase = repLenCoderOff
	}

	var lenOffset, lenBits, lenProbsOff int
	bit, ok = peekBit(probs[lenBase+lenChoice])
	if !ok {
		return dummyError
	}
	if bit == 0 {
		lenProbsOff = lenBase + lenLow + int(posState)<<lenNumLowBits
		lenBits = lenNumLowBits
	} else {
		bit, ok = peekBit(probs[lenBase+lenChoice2])
		if !ok {
			return dummyError
		}
		if bit == 0 {
			lenProbsOff = lenBase + lenMid + int(posState)<<lenNumMidBits
			lenOffset = lenNumLowSymbols
			lenBits = lenNumMidBits
		} else {
			lenProbsOff = lenBase + lenHigh
			lenOffset = lenNumLowSymbols + lenNumMidSymbols
			lenBits = lenNumHighBits
		}
	}
	var length uint32
	m := uint32(1)
	for i := 0; i < lenBits; i++ {
		bit, ok = peekBit(probs[lenProbsOff+int(m)])
		if !ok {
			return dummyError
		}
		m = m<<1 + bit
	}
	length = m - (1 << uint(lenBits)) + uint32(lenOffset)

	if state < numStates {
		slotBase := posSlotOff + minInt(int(length), numLenToPosStates-1)<<numPosSlotBits
		m = 1
		for i := 0; i < numPosSlotBits; i++ {
			bit, ok = peekBit(probs[slotBase+int(m)])
			if !ok {
				return dummyError
			}
			m = m<<1 + bit
		}
		posSlot := m - (1 << numPosSlotBits)

		if posSlot >= startPosModelIndex {
			numDirectBits := int(posSlot>>1) - 1
			if posSlot < endPosModelIndex {
				lenBase = specPosOff + int((2|(posSlot&1))<<uint(numDirectBits)) - int(posSlot) - 1
			} else {
				numDirectBits -= numAlignBits
				for i := 0; i < numDirectBits; i++ {
					_, pos, ok = rc.peekDirectBit(data, pos)
					if !ok {
						return dummyError
					}
				}
				lenBase = alignOff
				numDirectBits = numAlignBits
			}
			m = 1
			for i := 0; i < numDirectBits; i++ {
				bit, ok = peekBit(probs[lenBase+int(m)])
				if !ok {
					return dummyError
				}
				m = m<<1 + bit
			}
		}
	}

	if rc.rng < topValue {
		if pos >= len(data) {
			return dummyError
		}
	}

	return res
}

// DecodeToDic decodes symbols until d.Dict.Pos reaches dicLimit or the
// stream's end-of-stream marker is found, consuming from src as
// needed and reporting how much of src was used (spec.md §6).
//
// DecodeToDic never blocks on its own: running out of input or
// reaching dicLimit simply returns the corresponding Status, and the
// next call resumes exactly where the stream left off, including
// mid-symbol lookahead buffered in d.tempBuf.
func (d *Decoder) DecodeToDic(dicLimit int, src []byte, finish FinishMode) (consumed int, status Status, err error) {
	srcPos := 0
	d.writeRem(dicLimit)

	for d.remainLen != matchSpecLenStart {
		if d.needFlush {
			for srcPos < len(src) && d.tempBufSize < rcInitSize {
				d.tempBuf[d.tempBufSize] = src[srcPos]
				d.tempBufSize++
				srcPos++
			}
			if d.tempBufSize < rcInitSize {
				return srcPos, StatusNeedsMoreInput, nil
			}
			if err := d.rc.init(d.tempBuf[:rcInitSize]); err != nil {
				return srcPos, StatusNotSpecified, err
			}
			d.needFlush = false
			d.tempBufSize = 0
			xlog.Printf(d.Logger, "lzma: range coder initialized, code=0x%08x", d.rc.code)
		}

		checkEndMarkNow := false
		if d.Dict.Pos >= dicLimit {
			if d.remainLen == 0 && d.rc.code == 0 {
				return srcPos, StatusMaybeFinishedWithoutMark, nil
			}
			if finish == FinishAny {
				return srcPos, StatusNotFinished, nil
			}
			if d.remainLen != 0 {
				return srcPos, StatusNotFinished, newError("stream truncated inside a match")
			}
			checkEndMarkNow = true
		}

		if d.needInitState {
			d.initStateReal()
		}

		if d.tempBufSize == 0 {
			var bufLimit int
			rest := src[srcPos:]
			if len(rest) < reqInputMax || checkEndMarkNow {
				kind := d.tryDummy(rest)
				if kind == dummyError {
					d.tempBufSize = copy(d.tempBuf[:], rest)
					srcPos += len(rest)
					return srcPos, StatusNeedsMoreInput, nil
				}
				if checkEndMarkNow && kind != dummyMatch {
					return srcPos, StatusNotFinished, newError("stream did not end with the end-of-stream marker")
				}
				bufLimit = 0
			} else {
				bufLimit = len(rest) - reqInputMax
			}

			var newPos int
			newPos, err = d.decodeReal2(dicLimit, rest, 0, bufLimit)
			if err != nil {
				return srcPos + newPos, StatusNotSpecified, err
			}
			srcPos += newPos
		} else {
			rem := d.tempBufSize
			lookAhead := 0
			for rem < reqInputMax && srcPos+lookAhead < len(src) {
				d.tempBuf[rem] = src[srcPos+lookAhead]
				rem++
				lookAhead++
			}
			d.tempBufSize = rem

			if rem < reqInputMax || checkEndMarkNow {
				kind := d.tryDummy(d.tempBuf[:rem])
				if kind == dummyError {
					srcPos += lookAhead
					return srcPos, StatusNeedsMoreInput, nil
				}
				if checkEndMarkNow && kind != dummyMatch {
					return srcPos, StatusNotFinished, newError("stream did not end with the end-of-stream marker")
				}
			}

			var newPos int
			newPos, err = d.decodeReal2(dicLimit, d.tempBuf[:rem], 0, 0)
			if err != nil {
				return srcPos, StatusNotSpecified, err
			}

			lookAhead -= rem - newPos
			srcPos += lookAhead
			d.tempBufSize = 0
		}
	}

	if d.rc.code == 0 {
		xlog.Printf(d.Logger, "lzma: end-of-stream marker at dicPos %d", d.Dict.Pos)
		return srcPos, StatusFinishedWithMark, nil
	}
	return srcPos, StatusNotSpecified, newError("end-of-stream marker left a nonzero range-coder residue")
}
