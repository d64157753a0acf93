package mutation

// SingleInterest substitutes each byte with every value from the 8-bit
// interesting-value table, skipping candidates a bitflip or arith stage
// could already have produced.
func (m *Mutation) SingleInterest(cb Oracle) {
	m.StageName = stageNames[StageInterest8]
	table := interesting8
	m.StageMax = uint64(m.dataSize * len(table))
	m.StageCur = 0

	for i := 0; i < m.dataSize; i++ {
		if !m.eff.isSet(i) {
			m.StageMax -= uint64(len(table))
			continue
		}

		if m.shadowMode && m.branchMask[i]&MaskModify == 0 {
			m.StageMax -= uint64(len(table))
			continue
		}

		orig := m.cur.Data[i]

		for _, c := range table {
			nv := byte(c)

			if couldBeBitflip(uint32(orig)^uint32(nv)) || couldBeArith(uint32(orig), uint32(nv), 1) {
				m.StageMax--
				continue
			}

			m.cur.Data[i] = nv
			cb(m.cur.Data)
			m.StageCur++
			m.cur.Data[i] = orig
		}
	}

	m.addStageCycles(StageInterest8, m.StageMax)
}

// TwoInterest substitutes each 16-bit window with every value from the
// 16-bit interesting-value table, native and byte-swapped.
func (m *Mutation) TwoInterest(cb Oracle) {
	m.StageName = stageNames[StageInterest16]
	if m.dataSize < 2 {
		return
	}

	table := interesting16
	m.StageMax = uint64((m.dataSize - 1) * len(table) * 2)
	m.StageCur = 0

	for i := 0; i < m.dataSize-1; i++ {
		if !m.eff.isSet(i) && !m.eff.isSet(i+1) {
			m.StageMax -= uint64(len(table) * 2)
			continue
		}

		if m.shadowMode && (m.branchMask[i]&MaskModify == 0 || m.branchMask[i+1]&MaskModify == 0) {
			m.StageMax -= uint64(len(table) * 2)
			continue
		}

		orig := uint16(m.cur.Data[i]) | uint16(m.cur.Data[i+1])<<8

		for _, c := range table {
			nv := uint16(c)

			if couldBeBitflip(uint32(orig)^uint32(nv)) || couldBeArith(uint32(orig), uint32(nv), 2) ||
				couldBeInterest(uint32(orig), uint32(nv), 2, false) {
				m.StageMax--
			} else {
				writeU16(m.cur.Data, i, nv)
				cb(m.cur.Data)
				m.StageCur++
				writeU16(m.cur.Data, i, orig)
			}

			sv := swap16(nv)
			if sv == nv {
				m.StageMax--
				continue
			}

			if couldBeBitflip(uint32(orig)^uint32(sv)) || couldBeArith(uint32(orig), uint32(sv), 2) ||
				couldBeInterest(uint32(orig), uint32(sv), 2, true) {
				m.StageMax--
				continue
			}

			writeU16(m.cur.Data, i, sv)
			cb(m.cur.Data)
			m.StageCur++
			writeU16(m.cur.Data, i, orig)
		}
	}

	m.addStageCycles(StageInterest16, m.StageMax)
}

// FourInterest substitutes each 32-bit window with every value from the
// 32-bit interesting-value table, native and byte-swapped.
func (m *Mutation) FourInterest(cb Oracle) {
	m.StageName = stageNames[StageInterest32]
	if m.dataSize < 4 {
		return
	}

	table := interesting32
	m.StageMax = uint64((m.dataSize - 3) * len(table) * 2)
	m.StageCur = 0

	for i := 0; i < m.dataSize-3; i++ {
		if !m.eff.isSet(i) && !m.eff.isSet(i+1) && !m.eff.isSet(i+2) && !m.eff.isSet(i+3) {
			m.StageMax -= uint64(len(table) * 2)
			continue
		}

		if m.shadowMode && (m.branchMask[i]&MaskModify == 0 || m.branchMask[i+1]&MaskModify == 0 ||
			m.branchMask[i+2]&MaskModify == 0 || m.branchMask[i+3]&MaskModify == 0) {
			m.StageMax -= uint64(len(table) * 2)
			continue
		}

		orig := readU32(m.cur.Data, i)

		for _, c := range table {
			nv := c

			if couldBeBitflip(orig^nv) || couldBeArith(orig, nv, 4) ||
				couldBeInterest(orig, nv, 4, false) {
				m.StageMax--
			} else {
				writeU32(m.cur.Data, i, nv)
				cb(m.cur.Data)
				m.StageCur++
				writeU32(m.cur.Data, i, orig)
			}

			sv := swap32(nv)
			if sv == nv {
				m.StageMax--
				continue
			}

			if couldBeBitflip(orig^sv) || couldBeArith(orig, sv, 4) ||
				couldBeInterest(orig, sv, 4, true) {
				m.StageMax--
				continue
			}

			writeU32(m.cur.Data, i, sv)
			cb(m.cur.Data)
			m.StageCur++
			writeU32(m.cur.Data, i, orig)
		}
	}

	m.addStageCycles(StageInterest32, m.StageMax)
}
