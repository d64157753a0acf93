package mutation

// Branch-mask capability bits (spec §3).
const (
	// MaskModify permits overwrite mutations at a position.
	MaskModify byte = 1
	// MaskDelete permits deleting the byte at a position.
	MaskDelete byte = 2
	// MaskInsert permits inserting a byte before a position.
	MaskInsert byte = 4
)

// sentinelPos is the "no admissible position" return value for the
// shadow-mode position helpers (source: 0xffffffff).
const sentinelPos uint32 = 0xFFFFFFFF

// newBranchMask allocates a branch mask of the given length with every
// byte set to all three capabilities, except the final (sentinel) byte
// which permits only insertion — matching the source's alloc_branchMask.
func newBranchMask(size int) []byte {
	if size <= 0 {
		return nil
	}

	m := make([]byte, size)
	for i := range m {
		m[i] = MaskModify | MaskDelete | MaskInsert
	}

	m[size-1] = MaskInsert

	return m
}

// cloneBranchMask returns an independent copy of m.
func cloneBranchMask(m []byte) []byte {
	cp := make([]byte, len(m))
	copy(cp, m)

	return cp
}

// randomModifiablePosition enumerates maximal runs of bytes where
// mask[i]&modType != 0, then within each run lists every starting
// index that leaves at least max(1, numBitsToModify/8) masked bytes
// of headroom, and returns one chosen uniformly — or sentinelPos if
// none exists. mapLen is a length, not length+1 (spec §4.3).
func randomModifiablePosition(r RNG, numBitsToModify uint32, modType byte, mapLen uint32, mask []byte) uint32 {
	positions := collectModifiablePositions(numBitsToModify, modType, mapLen, mask)
	if len(positions) == 0 {
		return sentinelPos
	}

	pos := positions[r.UR(uint32(len(positions)))]

	if numBitsToModify >= 8 {
		return pos
	}

	return pos*8 + r.UR(8)
}

func collectModifiablePositions(numBitsToModify uint32, modType byte, mapLen uint32, mask []byte) []uint32 {
	var positions []uint32

	numBytes := numBitsToModify / 8
	if numBytes < 1 {
		numBytes = 1
	}

	prevStart := -1
	inZeroBlock := true

	n := int(mapLen)
	for i := 0; i < n; i++ {
		if mask[i]&modType != 0 {
			if inZeroBlock {
				prevStart = i
				inZeroBlock = false
			}

			continue
		}

		if !inZeroBlock && prevStart != -1 {
			for j := prevStart; j <= i-int(numBytes); j++ {
				positions = append(positions, uint32(j))
			}
		}

		inZeroBlock = true
	}

	if !inZeroBlock {
		for j := prevStart; j <= n-int(numBytes); j++ {
			positions = append(positions, uint32(j))
		}
	}

	return positions
}

// randomInsertPosition enumerates all indices in [0, mapLen] with
// MaskInsert set and returns one uniformly, or mapLen (past-the-end
// fallback) when none exists.
func randomInsertPosition(r RNG, mapLen uint32, mask []byte) uint32 {
	var positions []uint32

	for i := uint32(0); i <= mapLen; i++ {
		if mask[i]&MaskInsert != 0 {
			positions = append(positions, i)
		}
	}

	if len(positions) == 0 {
		return mapLen
	}

	return positions[r.UR(uint32(len(positions)))]
}
