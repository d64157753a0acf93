package mutation

import "testing"

func TestSpliceNoCandidatesReturnsFalse(t *testing.T) {
	seed := NewFuzzItem([]byte{1, 2, 3, 4})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	if m.Splice(func() []byte { return nil }) {
		t.Fatalf("Splice with no candidates returned true, want false")
	}
}

func TestSpliceNarrowDiffRejected(t *testing.T) {
	// Only the last byte differs: last-first < 2, so the span is too
	// narrow to carry a meaningful cut point and splice must refuse it.
	seed := NewFuzzItem([]byte{1, 2, 3, 4})
	other := []byte{1, 2, 3, 9}
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	if m.Splice(func() []byte { return other }) {
		t.Fatalf("Splice with a 1-byte-wide diff returned true, want false")
	}

	for i, b := range m.Data() {
		if b != seed.Data[i] {
			t.Fatalf("Splice touched byte %d despite rejecting the candidate", i)
		}
	}
}

func TestSpliceWideDiffOverwritesPrefixOnly(t *testing.T) {
	seed := NewFuzzItem([]byte{0, 0, 0, 0, 0, 0})
	other := []byte{1, 1, 1, 1, 1, 1}
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	if !m.Splice(func() []byte { return other }) {
		t.Fatalf("Splice with a wide diff returned false, want true")
	}

	got := m.Data()
	if len(got) != len(seed.Data) {
		t.Fatalf("Splice changed buffer length: got %d, want %d", len(got), len(seed.Data))
	}

	// first=0, last=5; splitAt is in [1,5). Everything from splitAt
	// onward must still equal the original seed bytes (all zero), and
	// everything before splitAt must equal the candidate (all one) —
	// since both buffers are uniform, just check the invariant by value.
	sawOne := false
	sawZero := false

	for _, b := range got {
		switch b {
		case 1:
			sawOne = true
		case 0:
			sawZero = true
		default:
			t.Fatalf("unexpected byte %#x in spliced buffer", b)
		}
	}

	if !sawOne {
		t.Fatalf("spliced buffer never took the candidate's prefix bytes")
	}

	if !sawZero {
		t.Fatalf("spliced buffer lost the original suffix bytes")
	}
}

func TestSpliceDoesNotInvokeOracle(t *testing.T) {
	seed := NewFuzzItem([]byte{0, 0, 0, 0, 0, 0})
	other := []byte{1, 1, 1, 1, 1, 1}
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	// Splice no longer takes an oracle callback at all; this test just
	// documents that a successful splice returns without requiring one.
	if !m.Splice(func() []byte { return other }) {
		t.Fatalf("Splice with a wide diff returned false, want true")
	}
}

func TestSpliceStopsAtFirstSuccess(t *testing.T) {
	seed := NewFuzzItem([]byte{0, 0, 0, 0, 0, 0})
	other := []byte{1, 1, 1, 1, 1, 1}
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	calls := 0

	ok := m.Splice(func() []byte {
		calls++
		return other
	})

	if !ok {
		t.Fatalf("Splice returned false, want true")
	}

	if calls != 1 {
		t.Fatalf("Splice called next %d times, want 1 (first success wins)", calls)
	}
}

func TestSpliceResetsBranchMaskForReplacedPrefix(t *testing.T) {
	seed := NewFuzzItem([]byte{0, 0, 0, 0, 0, 0})
	other := []byte{1, 1, 1, 1, 1, 1}
	m := New(seed, Dicts{}, true, NewSeededRNG(1))

	for i := range m.branchMask {
		m.branchMask[i] = 0
	}

	copy(m.origBranchMask, m.branchMask)

	if !m.Splice(func() []byte { return other }) {
		t.Fatalf("Splice with a wide diff returned false, want true")
	}

	full := byte(MaskModify | MaskDelete | MaskInsert)

	for i := 0; i < len(m.branchMask)-1; i++ {
		if m.branchMask[i] != 0 && m.branchMask[i] != full {
			t.Fatalf("branchMask[%d] = %#x, want 0 (untouched) or %#x (reset)", i, m.branchMask[i], full)
		}
	}

	for i := range m.branchMask {
		if m.branchMask[i] != m.origBranchMask[i] {
			t.Fatalf("origBranchMask diverged from branchMask at %d after splice", i)
		}
	}
}
