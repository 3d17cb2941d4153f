package lzma

import "testing"

func TestDecodeToDicNeedsMoreInputBelowFiveBytes(t *testing.T) {
	d := NewDecoder(0)
	consumed, status, err := d.DecodeToDic(0, []byte{0, 0, 0}, FinishAny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusNeedsMoreInput {
		t.Fatalf("status = %v, want NeedsMoreInput", status)
	}
	if consumed != 3 {
		t.Fatalf("consumed = %d, want 3", consumed)
	}
}

func TestDecodeToDicZeroLimitZeroCodeIsMaybeFinished(t *testing.T) {
	d := NewDecoder(0)
	consumed, status, err := d.DecodeToDic(0, []byte{0, 0, 0, 0, 0}, FinishAny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusMaybeFinishedWithoutMark {
		t.Fatalf("status = %v, want MaybeFinishedWithoutMark", status)
	}
	if consumed != 5 {
		t.Fatalf("consumed = %d, want 5", consumed)
	}
}

func TestDecodeToDicZeroLimitNonzeroCodeUnderFinishAnyIsNotFinished(t *testing.T) {
	d := NewDecoder(0)
	consumed, status, err := d.DecodeToDic(0, []byte{0, 0, 0, 0, 1}, FinishAny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusNotFinished {
		t.Fatalf("status = %v, want NotFinished", status)
	}
	if consumed != 5 {
		t.Fatalf("consumed = %d, want 5", consumed)
	}
}

func TestDecodeToDicRejectsNonzeroLeadingByte(t *testing.T) {
	d := NewDecoder(0)
	_, status, err := d.DecodeToDic(0, []byte{1, 0, 0, 0, 0}, FinishAny)
	if err == nil {
		t.Fatal("expected an error for a nonzero range-coder leading byte")
	}
	if status != StatusNotSpecified {
		t.Fatalf("status = %v, want NotSpecified on error", status)
	}
}

func TestDecodeToDicResumesAcrossCallsBelowInitSize(t *testing.T) {
	d := NewDecoder(0)
	consumed, status, err := d.DecodeToDic(0, []byte{0, 0}, FinishAny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusNeedsMoreInput || consumed != 2 {
		t.Fatalf("first call: consumed=%d status=%v, want 2/NeedsMoreInput", consumed, status)
	}

	consumed, status, err = d.DecodeToDic(0, []byte{0, 0, 0}, FinishAny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusMaybeFinishedWithoutMark {
		t.Fatalf("second call: status = %v, want MaybeFinishedWithoutMark", status)
	}
	if consumed != 3 {
		t.Fatalf("second call: consumed = %d, want 3", consumed)
	}
}
