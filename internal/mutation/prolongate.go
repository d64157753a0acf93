package mutation

import "github.com/sfuzz-go/mutation/internal/abi"

// Prolongate attempts up to SpliceCycles cross-seed transaction-count
// growths: for each candidate target buffer it duplicates the
// contract's function-descriptor list — first dropping descriptors
// with an empty Name, then appending a second full copy of the
// trimmed list — and raises the
// transaction-length marker to two, before submitting the target's
// payload concatenated with the seed's payload as one candidate. The
// descriptor list and transaction length are restored to their
// original values after every attempt, win or lose, so the call is
// transparent to the caller's abi.Descriptors beyond the duration of
// the oracle invocation. It stops and returns true on the first
// candidate that produces a submission.
func (m *Mutation) Prolongate(cb Oracle, desc abi.Descriptors, next SpliceSource) bool {
	m.StageName = stageNames[StageProlongation]
	m.StageMax = uint64(SpliceCycles)
	m.StageCur = 0

	origFuncs := desc.FuncDescriptors()
	origTxLen := desc.TransactionLength()
	succeeded := false

	for i := 0; i < SpliceCycles; i++ {
		m.StageCur++

		target := next()
		if target == nil {
			continue
		}

		trimmed := make([]abi.FunctionDescriptor, 0, len(origFuncs))
		for _, f := range origFuncs {
			if f.Name != "" {
				trimmed = append(trimmed, f)
			}
		}

		doubled := make([]abi.FunctionDescriptor, 0, len(trimmed)*2)
		doubled = append(doubled, trimmed...)
		doubled = append(doubled, trimmed...)

		desc.SetFuncDescriptors(doubled)
		desc.SetTransactionLength(2)

		width := 2 * max(len(m.cur.Data), len(target))
		combined := make([]byte, width)
		copy(combined, target)
		copy(combined[len(target):], m.cur.Data)

		cb(combined)

		desc.SetFuncDescriptors(origFuncs)
		desc.SetTransactionLength(origTxLen)

		succeeded = true

		break
	}

	m.addStageCycles(StageProlongation, m.StageMax)

	return succeeded
}
