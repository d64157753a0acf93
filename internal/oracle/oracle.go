// Package oracle wraps a target contract's execution entry point as a
// mutation.Oracle, either in-process or across a network boundary.
package oracle

import "github.com/sfuzz-go/mutation/internal/mutation"

// TargetContainer is the capability a fuzz target exposes: execute one
// candidate and report its coverage fingerprint and branch-hit rank.
type TargetContainer interface {
	Execute(data []byte) (mutation.Result, mutation.HitRank, error)
}

// Local adapts an in-process TargetContainer into a mutation.Oracle.
// Unlike the CLI's top-level recovery loop, Local does not recover from
// a target panic: a panic here means the harness itself is broken, and
// should propagate to the caller's own recovery boundary rather than be
// silently swallowed mid-stage.
type Local struct {
	Target TargetContainer
}

func (l Local) Oracle() mutation.Oracle {
	return func(data []byte) mutation.FuzzItem {
		res, rank, err := l.Target.Execute(data)
		if err != nil {
			return mutation.FuzzItem{Data: data, HitRank: mutation.HitNone}
		}

		return mutation.FuzzItem{Data: data, Res: res, HitRank: rank}
	}
}
