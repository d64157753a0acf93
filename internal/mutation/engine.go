package mutation

// StageID indexes the 32-slot stageCycles counter array (spec §6).
type StageID int

const (
	StageFlip1 StageID = iota
	StageFlip2
	StageFlip4
	StageFlip8
	StageFlip16
	StageFlip32
	StageArith8
	StageArith16
	StageArith32
	StageInterest8
	StageInterest16
	StageInterest32
	StageExtrasUO
	StageExtrasAO
	StageHavoc
	StageSplice
	StageProlongation
	StageRandom

	numStages = 32
)

// stageNames are the human-readable tags used in progress reporting,
// matching the source's stageName assignments.
var stageNames = map[StageID]string{
	StageFlip1:        "bitflip 1/1",
	StageFlip2:        "bitflip 2/1",
	StageFlip4:        "bitflip 4/1",
	StageFlip8:        "bitflip 8/8",
	StageFlip16:       "bitflip 16/8",
	StageFlip32:       "bitflip 32/8",
	StageArith8:       "arith 8/8",
	StageArith16:      "arith 16/8",
	StageArith32:      "arith 32/8",
	StageInterest8:    "interest 8/8",
	StageInterest16:   "interest 16/8",
	StageInterest32:   "interest 32/8",
	StageExtrasUO:     "dict (over)",
	StageExtrasAO:     "address (over)",
	StageHavoc:        "havoc",
	StageSplice:       "splice",
	StageProlongation: "prolongation",
	StageRandom:       "random 8/8",
}

// Mutation is the stateful per-seed mutation engine: the public façade
// over the deterministic stages, havoc, splice, and prolongate.
type Mutation struct {
	cur   FuzzItem
	dicts Dicts
	rng   RNG

	dataSize int
	eff      *effectorMap

	shadowMode     bool
	branchMask     []byte
	origBranchMask []byte
	positionMap    []uint32

	// Reporting state (spec §6), read-only to callers.
	StageName    string
	StageCur     uint64
	StageMax     uint64
	StageCurByte uint64
	stageCycles  [numStages]uint64
}

// New constructs a Mutation bound to seed, its dictionaries, and a
// shadow-mode flag. rng must not be nil; use NewRNG for a
// process-seeded stream or NewSeededRNG for deterministic tests.
func New(seed FuzzItem, dicts Dicts, shadowMode bool, rng RNG) *Mutation {
	dataSize := len(seed.Data)

	m := &Mutation{
		cur:        seed,
		dicts:      dicts,
		rng:        rng,
		dataSize:   dataSize,
		eff:        newEffectorMap(dataSize),
		shadowMode: shadowMode,
		StageName:  "init",
	}

	if shadowMode {
		m.branchMask = newBranchMask(dataSize + 1)
		m.origBranchMask = newBranchMask(dataSize + 1)
		m.positionMap = make([]uint32, dataSize+1)
	}

	return m
}

// DataSize returns the fixed length of the bound seed.
func (m *Mutation) DataSize() int { return m.dataSize }

// Data returns the engine's current working buffer. Callers must not
// retain a reference across further stage calls: deterministic stages
// mutate and restore it in place.
func (m *Mutation) Data() []byte { return m.cur.Data }

// BranchMask returns the current branch mask (nil outside shadow mode).
func (m *Mutation) BranchMask() []byte { return m.branchMask }

// StageCycles returns the sum of the named stage's final StageMax over
// every run on this engine, i.e. the candidate count left after the
// skipped positions were subtracted.
func (m *Mutation) StageCycles(id StageID) uint64 { return m.stageCycles[id] }

// StageLabel returns the human-readable name for a stage ID.
func StageLabel(id StageID) string { return stageNames[id] }

func (m *Mutation) addStageCycles(id StageID, n uint64) {
	m.stageCycles[id] += n
}

// snapshotData returns a fresh copy of the current buffer, used by
// stages that must restore exact pre-mutation bytes.
func (m *Mutation) snapshotData() []byte {
	cp := make([]byte, len(m.cur.Data))
	copy(cp, m.cur.Data)

	return cp
}
