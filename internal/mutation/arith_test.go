package mutation

import "testing"

func TestSingleArithRestoresBuffer(t *testing.T) {
	data := make([]byte, 16)
	seed := NewFuzzItem(data)
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	m.SingleArith(func(d []byte) FuzzItem { return FuzzItem{Data: d} })

	for i, b := range m.Data() {
		if b != 0 {
			t.Fatalf("SingleArith left byte %d mutated: %#x", i, b)
		}
	}
}

func TestSingleArithSkipsBitflipDuplicates(t *testing.T) {
	// orig=0x00, orig+1=0x01: xorDelta=1 is a couldBeBitflip pattern,
	// so this candidate must never reach the oracle.
	data := []byte{0x00}
	seed := NewFuzzItem(data)
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	seenOne := false

	m.SingleArith(func(d []byte) FuzzItem {
		if d[0] == 0x01 {
			seenOne = true
		}

		return FuzzItem{Data: d}
	})

	if seenOne {
		t.Fatalf("SingleArith produced candidate 0x01, which bitflip stages already cover")
	}
}

func TestTwoArithTooShortNoop(t *testing.T) {
	seed := NewFuzzItem([]byte{0x01})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	calls := 0
	m.TwoArith(func(d []byte) FuzzItem { calls++; return FuzzItem{Data: d} })

	if calls != 0 {
		t.Fatalf("TwoArith on a 1-byte buffer made %d calls, want 0", calls)
	}
}

func TestFourArithTooShortNoop(t *testing.T) {
	seed := NewFuzzItem([]byte{0x01, 0x02, 0x03})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	calls := 0
	m.FourArith(func(d []byte) FuzzItem { calls++; return FuzzItem{Data: d} })

	if calls != 0 {
		t.Fatalf("FourArith on a 3-byte buffer made %d calls, want 0", calls)
	}
}

func TestWriteReadU32RoundTrip(t *testing.T) {
	data := make([]byte, 4)
	writeU32(data, 0, 0xDEADBEEF)

	if got := readU32(data, 0); got != 0xDEADBEEF {
		t.Fatalf("readU32(writeU32(x)) = %#x, want %#x", got, uint32(0xDEADBEEF))
	}
}
