package mutation

// Havoc runs rounds stacked random mutations per round, always starting
// each round from the frozen origin buffer and (in shadow mode) the
// frozen origBranchMask, so one round's damage never leaks into the
// next (spec §5).
func (m *Mutation) Havoc(cb Oracle, rounds int) {
	m.StageName = stageNames[StageHavoc]
	m.StageCur = 0
	m.StageMax = uint64(rounds)

	origin := m.snapshotData()

	for round := 0; round < rounds; round++ {
		m.cur.Data = append(m.cur.Data[:0], origin...)

		if m.shadowMode {
			m.branchMask = cloneBranchMask(m.origBranchMask)
		}

		useStacking := 1 << (1 + m.rng.UR(HavocStackPow2))

		opRange := uint32(14)
		if len(m.dicts.Code.Extras) > 0 {
			opRange += 2
		}

		for s := 0; s < useStacking; s++ {
			m.applyHavocOperator(m.rng.UR(opRange))
		}

		cb(m.cur.Data)
		m.StageCur++
	}

	m.dataSize = len(origin)
	m.cur.Data = append(m.cur.Data[:0], origin...)

	if m.shadowMode {
		m.branchMask = cloneBranchMask(m.origBranchMask)
	}

	m.addStageCycles(StageHavoc, m.StageMax)
}

// refreshPositions rebuilds the list of modify-capable positions used
// to steer byte/word/dword operator picks in shadow mode.
// pickModifiablePos calls it on every pick, so the list always reflects
// the mask as reshaped by earlier operators of the round.
func (m *Mutation) refreshPositions() {
	if !m.shadowMode {
		return
	}

	m.positionMap = m.positionMap[:0]

	for i, b := range m.branchMask {
		if b&MaskModify != 0 {
			m.positionMap = append(m.positionMap, uint32(i))
		}
	}
}

// pickModifiablePos returns a byte offset eligible for a width-byte
// overwrite, preferring the shadow-mode position list.
func (m *Mutation) pickModifiablePos(width int) int {
	n := len(m.cur.Data)
	if n < width {
		return 0
	}

	if m.shadowMode {
		m.refreshPositions()

		if len(m.positionMap) > 0 {
			for tries := 0; tries < 8; tries++ {
				p := int(m.positionMap[m.rng.UR(uint32(len(m.positionMap)))])
				if p <= n-width {
					return p
				}
			}
		}
	}

	return int(m.rng.UR(uint32(n - width + 1)))
}

func (m *Mutation) applyHavocOperator(op uint32) {
	n := len(m.cur.Data)
	if n == 0 {
		return
	}

	switch op {
	case 0: // flip a single random bit
		pos := int(m.rng.UR(uint32(n) * 8))
		m.cur.Data[pos>>3] ^= 128 >> uint(pos&7)

	case 1: // set a byte to an interesting value
		if n < 1 {
			return
		}

		p := m.pickModifiablePos(1)
		m.cur.Data[p] = byte(interesting8[m.rng.UR(uint32(len(interesting8)))])

	case 2: // set a word to an interesting value, random endian
		if n < 2 {
			return
		}

		p := m.pickModifiablePos(2)
		v := uint16(interesting16[m.rng.UR(uint32(len(interesting16)))])

		if m.rng.UR(2) == 0 {
			writeU16(m.cur.Data, p, v)
		} else {
			writeU16(m.cur.Data, p, swap16(v))
		}

	case 3: // set a dword to an interesting value, random endian
		if n < 4 {
			return
		}

		p := m.pickModifiablePos(4)
		v := interesting32[m.rng.UR(uint32(len(interesting32)))]

		if m.rng.UR(2) == 0 {
			writeU32(m.cur.Data, p, v)
		} else {
			writeU32(m.cur.Data, p, swap32(v))
		}

	case 4: // subtract from a byte
		p := m.pickModifiablePos(1)
		m.cur.Data[p] -= byte(1 + m.rng.UR(ArithMax))

	case 5: // add to a byte
		p := m.pickModifiablePos(1)
		m.cur.Data[p] += byte(1 + m.rng.UR(ArithMax))

	case 6: // subtract from a word, random endian
		if n < 2 {
			return
		}

		p := m.pickModifiablePos(2)
		v := uint16(m.cur.Data[p]) | uint16(m.cur.Data[p+1])<<8
		d := uint16(1 + m.rng.UR(ArithMax))

		if m.rng.UR(2) == 0 {
			writeU16(m.cur.Data, p, v-d)
		} else {
			writeU16(m.cur.Data, p, swap16(swap16(v)-d))
		}

	case 7: // add to a word, random endian
		if n < 2 {
			return
		}

		p := m.pickModifiablePos(2)
		v := uint16(m.cur.Data[p]) | uint16(m.cur.Data[p+1])<<8
		d := uint16(1 + m.rng.UR(ArithMax))

		if m.rng.UR(2) == 0 {
			writeU16(m.cur.Data, p, v+d)
		} else {
			writeU16(m.cur.Data, p, swap16(swap16(v)+d))
		}

	case 8: // subtract from a dword, random endian
		if n < 4 {
			return
		}

		p := m.pickModifiablePos(4)
		v := readU32(m.cur.Data, p)
		d := uint32(1 + m.rng.UR(ArithMax))

		if m.rng.UR(2) == 0 {
			writeU32(m.cur.Data, p, v-d)
		} else {
			writeU32(m.cur.Data, p, swap32(swap32(v)-d))
		}

	case 9: // add to a dword, random endian
		if n < 4 {
			return
		}

		p := m.pickModifiablePos(4)
		v := readU32(m.cur.Data, p)
		d := uint32(1 + m.rng.UR(ArithMax))

		if m.rng.UR(2) == 0 {
			writeU32(m.cur.Data, p, v+d)
		} else {
			writeU32(m.cur.Data, p, swap32(swap32(v)+d))
		}

	case 10: // set a random byte to a random value
		p := m.pickModifiablePos(1)
		m.cur.Data[p] ^= byte(1 + m.rng.UR(255))

	case 11, 12: // delete a chunk (double-weighted)
		if n < 2 {
			return
		}

		delLen := int(chooseBlockLen(m.rng, uint32(n-1)))
		pos := int(m.rng.UR(uint32(n - delLen + 1)))

		m.cur.Data = append(m.cur.Data[:pos], m.cur.Data[pos+delLen:]...)

		if m.shadowMode {
			m.branchMask = append(m.branchMask[:pos], m.branchMask[pos+delLen:]...)
		}

	case 13: // clone an existing chunk, or insert a constant-byte run
		useClone := m.rng.UR(4) != 0
		var chunk []byte

		if useClone && n > 0 {
			cloneLen := int(chooseBlockLen(m.rng, uint32(n)))
			src := int(m.rng.UR(uint32(n - cloneLen + 1)))
			chunk = append([]byte(nil), m.cur.Data[src:src+cloneLen]...)
		} else {
			chunk = make([]byte, chooseBlockLen(m.rng, HavocBlkLarge))
			fill := byte(m.rng.UR(256))
			for i := range chunk {
				chunk[i] = fill
			}
		}

		pos := int(randomInsertPosition(m.rng, uint32(n), m.branchMaskOrFull()))
		if pos > n {
			pos = n
		}

		grown := make([]byte, 0, n+len(chunk))
		grown = append(grown, m.cur.Data[:pos]...)
		grown = append(grown, chunk...)
		grown = append(grown, m.cur.Data[pos:]...)
		m.cur.Data = grown

		if m.shadowMode {
			ins := make([]byte, len(chunk))
			for i := range ins {
				ins[i] = MaskModify | MaskDelete | MaskInsert
			}

			grownMask := make([]byte, 0, len(m.branchMask)+len(ins))
			grownMask = append(grownMask, m.branchMask[:pos]...)
			grownMask = append(grownMask, ins...)
			grownMask = append(grownMask, m.branchMask[pos:]...)
			m.branchMask = grownMask
		}

	case 14: // overwrite a block with bytes copied from elsewhere in the
		// buffer, or with a constant-byte run
		if n < 2 {
			return
		}

		copyLen := int(chooseBlockLen(m.rng, uint32(n-1)))
		if copyLen == 0 {
			return
		}

		dst := int(m.rng.UR(uint32(n - copyLen + 1)))

		if m.rng.UR(4) != 0 {
			src := int(m.rng.UR(uint32(n - copyLen + 1)))
			tmp := append([]byte(nil), m.cur.Data[src:src+copyLen]...)
			copy(m.cur.Data[dst:dst+copyLen], tmp)
		} else {
			fill := byte(m.rng.UR(256))
			for i := 0; i < copyLen; i++ {
				m.cur.Data[dst+i] = fill
			}
		}

	case 15: // overwrite with a random code-dictionary entry
		extras := m.dicts.Code.Extras
		if len(extras) == 0 {
			return
		}

		e := extras[m.rng.UR(uint32(len(extras)))]
		if len(e.Data) == 0 || len(e.Data) > n {
			return
		}

		dst := int(m.rng.UR(uint32(n - len(e.Data) + 1)))
		copy(m.cur.Data[dst:dst+len(e.Data)], e.Data)
	}
}

// branchMaskOrFull returns the working branch mask, or an all-insertable
// mask of the current length outside shadow mode.
func (m *Mutation) branchMaskOrFull() []byte {
	if m.shadowMode {
		return m.branchMask
	}

	return newBranchMask(len(m.cur.Data) + 1)
}
