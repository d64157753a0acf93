// Package mutation implements the coverage-guided mutation engine: a
// deterministic AFL-style pipeline, an effector-map optimization, a
// shadow/branch-mask optimization, a stochastic havoc stage, and
// cross-seed splice/prolongate stages for ABI-encoded transaction
// payloads.
package mutation

// Result is the oracle's verdict for one candidate buffer.
type Result struct {
	// Cksum is the 64-bit coverage fingerprint the target reported for
	// this candidate.
	Cksum uint64
}

// HitRank records how a candidate relates to the branch currently
// being targeted. Any non-zero value means "still reaches the target
// branch" for branch-mask learning purposes.
type HitRank uint8

const (
	// HitNone means the candidate exercised no uncovered branch.
	HitNone HitRank = 0
	// HitUncovered means the candidate exercises a branch not yet covered.
	HitUncovered HitRank = 1
	// HitCurrent means the candidate hits the branch currently targeted.
	HitCurrent HitRank = 2
	// HitNew means the candidate discovered a new branch.
	HitNew HitRank = 3
)

// Reaches reports whether hr should be treated as "still reaches the
// target branch" for branch-mask learning (spec: any non-zero rank).
func (hr HitRank) Reaches() bool { return hr != HitNone }

// FuzzItem is a candidate input together with its oracle result.
// FuzzedCount and Depth are scheduler bookkeeping, opaque to this
// package — it never reads or writes them.
type FuzzItem struct {
	Data        []byte
	Res         Result
	HitRank     HitRank
	FuzzedCount uint64
	Depth       uint64
}

// NewFuzzItem copies data into a fresh FuzzItem, matching the source's
// FuzzItem constructor which takes ownership of a byte copy.
func NewFuzzItem(data []byte) FuzzItem {
	cp := make([]byte, len(data))
	copy(cp, data)

	return FuzzItem{Data: cp}
}

// Oracle executes a candidate buffer against the instrumented target
// and reports coverage/branch-hit information. Implementations must
// copy data if they retain it past the call, since the engine may
// reuse the backing array on the next invocation.
type Oracle func(data []byte) FuzzItem

// DictEntry is one dictionary token.
type DictEntry struct {
	Data []byte
}

// Dictionary is an ordered sequence of tokens used by the overwrite
// stages and by havoc operator 15.
type Dictionary struct {
	Extras []DictEntry
}

// AddressDictLen is the fixed width of every address dictionary entry.
const AddressDictLen = 20

// Dicts is the (code, address) dictionary pair the engine consumes.
type Dicts struct {
	Code    Dictionary
	Address Dictionary
}
