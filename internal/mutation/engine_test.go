package mutation

import "testing"

func TestNewDataSizeAndShadowAllocation(t *testing.T) {
	seed := NewFuzzItem([]byte{1, 2, 3})

	plain := New(seed, Dicts{}, false, NewSeededRNG(1))
	if plain.DataSize() != 3 {
		t.Fatalf("DataSize() = %d, want 3", plain.DataSize())
	}

	if plain.BranchMask() != nil {
		t.Fatalf("expected nil branch mask outside shadow mode")
	}

	shadow := New(seed, Dicts{}, true, NewSeededRNG(1))
	if len(shadow.BranchMask()) != 4 {
		t.Fatalf("shadow mode branch mask length = %d, want 4 (dataSize+1)", len(shadow.BranchMask()))
	}
}

func TestStageCyclesAccumulateAcrossCalls(t *testing.T) {
	seed := NewFuzzItem([]byte{0xFF})
	m := New(seed, Dicts{}, false, NewSeededRNG(1))

	noop := func(d []byte) FuzzItem { return FuzzItem{Data: d} }

	m.SingleWalkingBit(noop)
	first := m.StageCycles(StageFlip1)

	m.SingleWalkingBit(noop)
	second := m.StageCycles(StageFlip1)

	if second != first*2 {
		t.Fatalf("StageCycles after two calls = %d, want %d (cumulative)", second, first*2)
	}
}

func TestStageLabel(t *testing.T) {
	if StageLabel(StageHavoc) != "havoc" {
		t.Fatalf("StageLabel(StageHavoc) = %q, want %q", StageLabel(StageHavoc), "havoc")
	}
}
