package mutation

// SpliceSource supplies a candidate corpus buffer distinct from the
// current seed, or nil when the corpus has nothing usable left.
type SpliceSource func() []byte

// Splice attempts up to SpliceCycles cross-seed recombinations: for
// each candidate it locates the first/last differing byte against the
// current seed (over the common prefix shared by both buffers), and —
// if that span is wide enough to carry a meaningful cut — overwrites
// the seed's own prefix [0, splitAt) with the candidate's bytes from
// the same range, leaving [splitAt, ·) and the buffer's length
// untouched. It stops and returns true on the first candidate that
// produces a splice; it never calls the oracle itself, since splice
// output is meant to seed further deterministic/havoc stages rather
// than be evaluated directly.
//
// On success, the replaced prefix's branch-mask capability bits are
// reset to fully permissive (the spliced-in bytes' branch behavior is
// unknown) and origBranchMask is resynced to match from an independent
// snapshot, unlike the source (REDESIGN: origBranchMask aliasing).
func (m *Mutation) Splice(next SpliceSource) bool {
	m.StageName = stageNames[StageSplice]
	m.StageMax = uint64(SpliceCycles)
	m.StageCur = 0

	origin := m.snapshotData()
	succeeded := false

	for i := 0; i < SpliceCycles; i++ {
		m.StageCur++

		other := next()
		if other == nil {
			continue
		}

		n := len(origin)
		if len(other) < n {
			n = len(other)
		}

		first, last := locateDiffs(origin, other, n)
		if first < 0 || last-first < 2 {
			continue
		}

		splitAt := first + 1 + int(m.rng.UR(uint32(last-first-1)))

		copy(m.cur.Data[:splitAt], other[:splitAt])

		if m.shadowMode {
			for p := 0; p < splitAt; p++ {
				m.branchMask[p] = MaskModify | MaskDelete | MaskInsert
			}

			copy(m.origBranchMask, m.branchMask)
		}

		succeeded = true

		break
	}

	m.addStageCycles(StageSplice, m.StageMax)

	return succeeded
}
