package mutation

import "testing"

func oracleCounting(calls *int) Oracle {
	return func(data []byte) FuzzItem {
		*calls++
		return FuzzItem{Data: data}
	}
}

func TestSingleWalkingBitCallCountAndRestore(t *testing.T) {
	seed := NewFuzzItem([]byte{0xAA})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	calls := 0
	m.SingleWalkingBit(oracleCounting(&calls))

	if calls != 8 {
		t.Fatalf("SingleWalkingBit over 1 byte made %d calls, want 8", calls)
	}

	if m.Data()[0] != 0xAA {
		t.Fatalf("SingleWalkingBit left the buffer mutated: got %#x, want %#x", m.Data()[0], 0xAA)
	}
}

func TestSingleWalkingByteEffectorAndRestore(t *testing.T) {
	// 24 bytes = 3 effector-map groups; the preset bits cover group 0
	// (byte 0) and group 2 (the final byte), leaving group 1 (bytes
	// 8-15) to be learned from an observed checksum change.
	data := make([]byte, 24)
	seed := NewFuzzItem(data)
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	calls := 0
	m.SingleWalkingByte(func(d []byte) FuzzItem {
		calls++

		cksum := uint64(0)
		if d[9] != 0 {
			cksum = 1
		}

		return FuzzItem{Data: d, Res: Result{Cksum: cksum}}
	})

	if calls != 24 {
		t.Fatalf("SingleWalkingByte over 24 bytes made %d calls, want 24", calls)
	}

	if !m.eff.isSet(9) {
		t.Fatalf("expected effector map to learn byte 9's group from the checksum change")
	}

	for i, b := range m.Data() {
		if b != 0 {
			t.Fatalf("SingleWalkingByte left byte %d mutated: %#x", i, b)
		}
	}
}

func TestSingleWalkingByteShadowClearsMaskOnUnreachedProbe(t *testing.T) {
	// byte 0 starts fully permissive (newBranchMask default); a probe
	// that never reaches the target branch must clear MaskModify for
	// it, not just leave the bit set from the default.
	seed := NewFuzzItem([]byte{0x00, 0x00})
	m := New(seed, Dicts{}, true, NewSeededRNG(1))

	m.SingleWalkingByte(func(d []byte) FuzzItem {
		return FuzzItem{Data: d, HitRank: HitNone}
	})

	if m.branchMask[0]&MaskModify != 0 {
		t.Fatalf("branchMask[0] still has MaskModify set after every probe reported HitNone")
	}
}

func TestTwoWalkingBitShadowSkipsMaskedBytes(t *testing.T) {
	seed := NewFuzzItem([]byte{0x00, 0x00, 0x00})
	m := New(seed, Dicts{}, true, NewSeededRNG(1))

	// Mask out every capability on byte 1, so any bit pair spanning it
	// must be skipped.
	m.branchMask[1] = 0

	calls := 0
	m.TwoWalkingBit(oracleCounting(&calls))

	total := uint64(len(seed.Data))<<3 - 1
	if m.StageMax >= total {
		t.Fatalf("expected shadow mode to reduce StageMax below the unmasked total %d, got %d", total, m.StageMax)
	}
}

func TestFlipbitTogglesExpectedBit(t *testing.T) {
	seed := NewFuzzItem([]byte{0x00})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	m.flipbit(0)

	if m.Data()[0] != 0x80 {
		t.Fatalf("flipbit(0) = %#x, want 0x80 (MSB-first)", m.Data()[0])
	}

	m.flipbit(7)

	if m.Data()[0] != 0x81 {
		t.Fatalf("flipbit(7) after flipbit(0) = %#x, want 0x81", m.Data()[0])
	}
}

func TestTwoWalkingByteInvertsBothBytes(t *testing.T) {
	seed := NewFuzzItem([]byte{0x00, 0x00, 0x00})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	var seen [][]byte

	m.TwoWalkingByte(func(data []byte) FuzzItem {
		cp := append([]byte(nil), data...)
		seen = append(seen, cp)

		return FuzzItem{Data: data}
	})

	if len(seen) != 2 {
		t.Fatalf("TwoWalkingByte over 3 bytes produced %d candidates, want 2", len(seen))
	}

	if seen[0][0] != 0xFF || seen[0][1] != 0xFF || seen[0][2] != 0x00 {
		t.Fatalf("first TwoWalkingByte candidate = %v, want [ff ff 00]", seen[0])
	}
}
