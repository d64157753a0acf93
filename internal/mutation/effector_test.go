package mutation

import "testing"

func TestNewEffectorMapPresetBits(t *testing.T) {
	m := newEffectorMap(20)

	if !m.isSet(0) {
		t.Fatalf("expected bit 0 preset")
	}

	if !m.isSet(19) {
		t.Fatalf("expected bit covering the final byte preset")
	}

	if m.isSet(9) {
		t.Fatalf("did not expect an interior byte preset")
	}
}

func TestEffectorMapSetIdempotent(t *testing.T) {
	m := newEffectorMap(20)
	before := m.count

	m.set(10)
	m.set(10)

	if m.count != before+1 {
		t.Fatalf("set should only increment count once per covered span, got count=%d want=%d", m.count, before+1)
	}
}

func TestEffectorMapFloodIfDense(t *testing.T) {
	m := newEffectorMap(800) // 100 effector bytes

	for i := 0; i < 91; i++ {
		m.bits[i] = 1
	}

	m.count = 91

	m.floodIfDense()

	for i := 0; i < len(m.bits); i++ {
		if m.bits[i] == 0 {
			t.Fatalf("expected flood to set every bit, byte %d unset", i)
		}
	}
}

func TestEffSpanALen(t *testing.T) {
	if got := effSpanALen(0, 8); got != 1 {
		t.Fatalf("effSpanALen(0,8) = %d, want 1", got)
	}

	if got := effSpanALen(7, 2); got != 2 {
		t.Fatalf("effSpanALen(7,2) = %d, want 2", got)
	}
}
