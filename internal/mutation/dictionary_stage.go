package mutation

// OverwriteWithDictionary overwrites every admissible offset with every
// code-dictionary entry, stepping by one byte. The MAX_DET_EXTRAS
// probability throttle is checked first, then entries longer than the
// remaining buffer, entries whose span is known inert (effector map),
// and entries that would be a no-op are folded into the same
// admissibility check, preserving the source's original order
// (spec Open Question: skip-order).
func (m *Mutation) OverwriteWithDictionary(cb Oracle) {
	m.StageName = stageNames[StageExtrasUO]
	extras := m.dicts.Code.Extras

	m.StageCur = 0
	m.StageMax = uint64(m.dataSize * len(extras))

	for i := 0; i < m.dataSize; i++ {
		if m.shadowMode && m.branchMask[i]&MaskModify == 0 {
			m.StageMax -= uint64(len(extras))
			continue
		}

		for _, e := range extras {
			elen := len(e.Data)

			if (len(extras) > MaxDetExtras && m.rng.UR(uint32(len(extras))) > MaxDetExtras) ||
				elen > m.dataSize-i || !m.eff.anySet(i, elen) || equalAt(m.cur.Data, i, e.Data) {
				m.StageMax--
				continue
			}

			saved := append([]byte(nil), m.cur.Data[i:i+elen]...)
			copy(m.cur.Data[i:i+elen], e.Data)
			cb(m.cur.Data)
			copy(m.cur.Data[i:i+elen], saved)
			m.StageCur++
		}
	}

	m.addStageCycles(StageExtrasUO, m.StageMax)
}

// OverwriteWithAddressDictionary overwrites bytes [i+12, i+32) with each
// address-dictionary entry, stepping by the fixed 32-byte ABI word
// width with a 12-byte left-pad.
func (m *Mutation) OverwriteWithAddressDictionary(cb Oracle) {
	m.StageName = stageNames[StageExtrasAO]
	extras := m.dicts.Address.Extras

	const (
		wordLen = 32
		padLen  = 12
	)

	if m.dataSize < wordLen {
		return
	}

	m.StageCur = 0
	m.StageMax = uint64(((m.dataSize-wordLen)/wordLen + 1) * len(extras))

	for i := 0; i+wordLen <= m.dataSize; i += wordLen {
		if m.shadowMode && m.branchMask[i+padLen]&MaskModify == 0 {
			m.StageMax -= uint64(len(extras))
			continue
		}

		for _, e := range extras {
			if len(e.Data) != AddressDictLen {
				m.StageMax--
				continue
			}

			saved := append([]byte(nil), m.cur.Data[i+padLen:i+wordLen]...)
			copy(m.cur.Data[i+padLen:i+wordLen], e.Data)
			cb(m.cur.Data)
			copy(m.cur.Data[i+padLen:i+wordLen], saved)
			m.StageCur++
		}
	}

	m.addStageCycles(StageExtrasAO, m.StageMax)
}

func equalAt(data []byte, i int, pattern []byte) bool {
	if i+len(pattern) > len(data) {
		return false
	}

	for k, b := range pattern {
		if data[i+k] != b {
			return false
		}
	}

	return true
}
