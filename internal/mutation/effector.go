package mutation

// effALen returns the number of bytes in an effector map covering
// dataSize input bytes, one bit per EffMapScale2 input bytes.
func effALen(dataSize int) int {
	return (dataSize + EffMapScale2 - 1) / EffMapScale2
}

// effAPos returns the effector-map byte index covering input byte i.
func effAPos(i int) int {
	return i / EffMapScale2
}

// effSpanALen returns the number of effector-map bytes spanned by an
// n-byte run starting at input byte i.
func effSpanALen(i, n int) int {
	return effAPos(i+n-1) - effAPos(i) + 1
}

// effectorMap tracks which input bytes affect the oracle's checksum,
// so expensive deterministic stages can skip inert bytes.
type effectorMap struct {
	bits     []byte
	count    int
	dataSize int
}

// newEffectorMap builds the initial effector map for dataSize input
// bytes: bit 0 and the bit covering the final byte are preset, per
// spec §3.
func newEffectorMap(dataSize int) *effectorMap {
	m := &effectorMap{
		bits:     make([]byte, effALen(dataSize)),
		dataSize: dataSize,
	}

	if len(m.bits) > 0 {
		m.bits[0] = 1
		m.count = 1
	}

	last := effAPos(dataSize - 1)
	if last != 0 && m.bits[last] == 0 {
		m.bits[last] = 1
		m.count++
	}

	return m
}

// set marks the effector-map bit covering input byte i, if not
// already set.
func (m *effectorMap) set(i int) {
	pos := effAPos(i)
	if m.bits[pos] == 0 {
		m.bits[pos] = 1
		m.count++
	}
}

// isSet reports whether the effector-map bit covering input byte i is set.
func (m *effectorMap) isSet(i int) bool {
	return m.bits[effAPos(i)] != 0
}

// anySet reports whether any effector-map bit covering [i, i+n) is set.
func (m *effectorMap) anySet(i, n int) bool {
	lo := effAPos(i)
	hi := effAPos(i + n - 1)

	for p := lo; p <= hi; p++ {
		if m.bits[p] != 0 {
			return true
		}
	}

	return false
}

// floodIfDense sets every bit if density exceeds EffMaxPerc, per the
// "pay the cost" heuristic (spec §3).
func (m *effectorMap) floodIfDense() {
	total := len(m.bits)
	if total == 0 || m.count == total {
		return
	}

	if m.count*100/total > EffMaxPerc {
		for i := range m.bits {
			m.bits[i] = 1
		}

		m.count = total
	}
}
