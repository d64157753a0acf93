package mutation

import "testing"

func TestSwap16RoundTrip(t *testing.T) {
	vals := []uint16{0, 1, 0xFF, 0x1234, 0xFFFF}

	for _, v := range vals {
		if got := swap16(swap16(v)); got != v {
			t.Fatalf("swap16(swap16(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestSwap32RoundTrip(t *testing.T) {
	vals := []uint32{0, 1, 0xFF, 0x12345678, 0xFFFFFFFF}

	for _, v := range vals {
		if got := swap32(swap32(v)); got != v {
			t.Fatalf("swap32(swap32(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestCouldBeBitflip(t *testing.T) {
	cases := []struct {
		delta uint32
		want  bool
	}{
		{0, true},
		{1, true},
		{3, true},
		{15, true},
		{0xff, true},
		{0xff00, true},  // byte-aligned flip of the second byte
		{0x0ff0, false}, // same bit pattern, not byte-aligned
		{0xffff, true},
		{0xffffffff, true},
		{5, false},
		{0x100, true}, // single bit at any shift
	}

	for _, c := range cases {
		if got := couldBeBitflip(c.delta); got != c.want {
			t.Fatalf("couldBeBitflip(%#x) = %v, want %v", c.delta, got, c.want)
		}
	}
}

func TestCouldBeArith(t *testing.T) {
	if !couldBeArith(10, 15, 1) {
		t.Fatalf("expected 10->15 to be within ARITH_MAX at width 1")
	}

	if couldBeArith(10, 100, 1) {
		t.Fatalf("expected 10->100 to exceed ARITH_MAX at width 1")
	}

	if !couldBeArith(0, 0, 4) {
		t.Fatalf("equal values must always be couldBeArith")
	}
}

func TestCouldBeInterest(t *testing.T) {
	if !couldBeInterest(0, u8(-128), 1, false) {
		t.Fatalf("expected -128 to be an interesting 8-bit value")
	}

	if couldBeInterest(0, 7, 1, false) {
		t.Fatalf("did not expect 7 to be an interesting 8-bit value")
	}
}

func TestLocateDiffs(t *testing.T) {
	a := []byte{1, 2, 3, 4, 5}
	b := []byte{1, 9, 3, 8, 5}

	first, last := locateDiffs(a, b, len(a))
	if first != 1 || last != 3 {
		t.Fatalf("locateDiffs = (%d, %d), want (1, 3)", first, last)
	}

	first, last = locateDiffs(a, a, len(a))
	if first != -1 || last != -1 {
		t.Fatalf("locateDiffs over identical buffers = (%d, %d), want (-1, -1)", first, last)
	}
}

type fixedRNG struct{ seq []uint32 }

func (f *fixedRNG) UR(n uint32) uint32 {
	if len(f.seq) == 0 {
		return 0
	}

	v := f.seq[0]
	f.seq = f.seq[1:]

	if v >= n {
		v = n - 1
	}

	return v
}
