// Package memguard checks an allocation size against a process memory
// ceiling. cmd/sfuzz-mutate applies it to the seed length at startup;
// the mutation engine does not call it, so havoc's insert/clone
// operators are not bounded by it.
package memguard

import "github.com/sfuzz-go/mutation/internal/ambienterr"

// DefaultLimit is the 1 GiB allocation guard carried over from the
// source's MAX_ALLOC.
const DefaultLimit = 1 << 30

// CheckAlloc returns an error if size exceeds limit. Callers pass 0 for
// limit to use DefaultLimit.
func CheckAlloc(size uint64, limit uint64) error {
	if limit == 0 {
		limit = DefaultLimit
	}

	if size > limit {
		return ambienterr.AllocTooLarge(size, limit)
	}

	return nil
}
