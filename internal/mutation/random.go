package mutation

// Random overwrites the whole buffer with fresh random bytes in a
// single candidate — a baseline stage. The bytes are not restored
// afterwards.
func (m *Mutation) Random(cb Oracle) {
	m.StageName = stageNames[StageRandom]
	m.StageMax = 1
	m.StageCur = 0

	for i := range m.cur.Data {
		m.cur.Data[i] = byte(m.rng.UR(256))
	}

	cb(m.cur.Data)
	m.StageCur = 1

	m.addStageCycles(StageRandom, m.StageMax)
}
