package lzma2

import "testing"

func TestDicSizeFromPropKnownValues(t *testing.T) {
	cases := []struct {
		prop byte
		want uint32
	}{
		{0, 1 << 12},
		{1, 3 << 11},
		{24, 1 << 24},
		{40, 0xFFFFFFFF},
	}
	for _, c := range cases {
		if got := DicSizeFromProp(c.prop); got != c.want {
			t.Errorf("DicSizeFromProp(%d) = 0x%x, want 0x%x", c.prop, got, c.want)
		}
	}
}

func TestDicSizeFromPropRejectsOutOfRange(t *testing.T) {
	if got := DicSizeFromProp(41); got != 0 {
		t.Fatalf("DicSizeFromProp(41) = %d, want 0", got)
	}
}
