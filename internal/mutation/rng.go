package mutation

import (
	"math/rand"
	"time"
)

// Tuning constants carried over from the source (Mutation.h / Mutation.cpp).
const (
	ArithMax       = 35
	HavocMin       = 1024
	HavocStackPow2 = 7
	SpliceCycles   = 15
	MaxDetExtras   = 200
	HavocBlkLarge  = 1500

	// EffMapScale2 is the number of input bytes covered by one
	// effector-map bit.
	EffMapScale2 = 8
	// EffMaxPerc is the density threshold (percent) above which the
	// whole effector map is flagged as worth fuzzing.
	EffMaxPerc = 90

	// MaxAlloc is the 1 GiB allocation guard from the source.
	MaxAlloc = 1 << 30
)

// RNG is the engine's uniform-random-integer capability. It is
// injected (Design Note "Global UR state") so tests can drive
// deterministic sequences instead of depending on process-wide state.
type RNG interface {
	// UR returns a uniformly distributed integer in [0, n). n must be > 0.
	UR(n uint32) uint32
}

// rngFunc adapts a *rand.Rand into an RNG.
type rngFunc struct {
	r *rand.Rand
}

// NewRNG returns an RNG backed by math/rand, seeded from the current
// time. Use NewSeededRNG for deterministic reproduction.
func NewRNG() RNG {
	return NewSeededRNG(time.Now().UnixNano())
}

// NewSeededRNG returns an RNG backed by math/rand with a fixed seed,
// the form tests use to drive a deterministic stream.
func NewSeededRNG(seed int64) RNG {
	return &rngFunc{r: rand.New(rand.NewSource(seed))}
}

func (f *rngFunc) UR(n uint32) uint32 {
	if n == 0 {
		return 0
	}

	return uint32(f.r.Int63n(int64(n)))
}

// swap16 reverses the byte order of a 16-bit value.
func swap16(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// swap32 reverses the byte order of a 32-bit value.
func swap32(v uint32) uint32 {
	return (v&0x000000FF)<<24 | (v&0x0000FF00)<<8 | (v&0x00FF0000)>>8 | (v&0xFF000000)>>24
}

// couldBeBitflip reports whether xorDelta is exactly reproducible by
// one of the walking bit/byte stages: a run of 1, 2, or 4 contiguous
// set bits anywhere (singleWalkingBit/twoWalkingBit/fourWalkingBit),
// or a full byte/word/dword flip starting on any byte boundary
// (singleWalkingByte/twoWalkingByte/fourWalkingByte). This is
// AFL's canonical could_be_bitflip rule.
func couldBeBitflip(xorDelta uint32) bool {
	if xorDelta == 0 {
		return true
	}

	sh := 0
	for xorDelta&1 == 0 {
		sh++
		xorDelta >>= 1
	}

	// 1-, 2-, and 4-bit patterns are reproducible at any shift.
	if xorDelta == 1 || xorDelta == 3 || xorDelta == 15 {
		return true
	}

	// 8-, 16-, and 32-bit patterns are reproducible only byte-aligned.
	if sh&7 != 0 {
		return false
	}

	return xorDelta == 0xff || xorDelta == 0xffff || xorDelta == 0xffffffff
}

// couldBeArith reports whether new equals orig ± k for some k in
// [1, ARITH_MAX] at width n bytes (1, 2, or 4), in either native or
// byte-swapped order.
func couldBeArith(orig, newV uint32, n int) bool {
	if orig == newV {
		return true
	}

	var mask uint32

	switch n {
	case 1:
		mask = 0xFF
	case 2:
		mask = 0xFFFF
	case 4:
		mask = 0xFFFFFFFF
	default:
		return false
	}

	o := orig & mask
	v := newV & mask

	diff := int64(v) - int64(o)
	if diff < 0 {
		diff = -diff
	}

	if diff >= 1 && diff <= ArithMax {
		return true
	}

	// Byte-swapped comparison for multi-byte widths.
	if n == 2 {
		so := uint32(swap16(uint16(o)))
		sv := uint32(swap16(uint16(v)))
		d := int64(sv) - int64(so)

		if d < 0 {
			d = -d
		}

		return d >= 1 && d <= ArithMax
	}

	if n == 4 {
		so := swap32(o)
		sv := swap32(v)
		d := int64(sv) - int64(so)

		if d < 0 {
			d = -d
		}

		return d >= 1 && d <= ArithMax
	}

	return false
}

// interestingValuesFor returns the table of interesting constants for
// width n (1, 2, or 4 bytes), encoded as the bit pattern a value of
// that width would hold.
func interestingValuesFor(n int) []uint32 {
	switch n {
	case 1:
		return interesting8
	case 2:
		return interesting16
	case 4:
		return interesting32
	default:
		return nil
	}
}

// couldBeInterest reports whether new equals one of the interesting
// constants of width n, in native or swapped form. alreadySwapped
// avoids re-testing the swapped form when the caller already tried it
// as a separate candidate.
func couldBeInterest(orig, newV uint32, n int, alreadySwapped bool) bool {
	_ = orig

	var mask uint32

	switch n {
	case 1:
		mask = 0xFF
	case 2:
		mask = 0xFFFF
	case 4:
		mask = 0xFFFFFFFF
	default:
		return false
	}

	v := newV & mask

	for _, c := range interestingValuesFor(n) {
		cv := c & mask
		if v == cv {
			return true
		}

		if alreadySwapped {
			continue
		}

		switch n {
		case 2:
			if v == uint32(swap16(uint16(cv))) {
				return true
			}
		case 4:
			if v == swap32(cv) {
				return true
			}
		}
	}

	return false
}

// chooseBlockLen returns a random block length biased toward smaller
// values using AFL's staged distribution, clamped to limit.
func chooseBlockLen(r RNG, limit uint32) uint32 {
	if limit == 0 {
		return 0
	}

	const (
		havocBlkSmall  = 32
		havocBlkMedium = 128
	)

	var maxVal uint32

	switch rollStage := r.UR(3); {
	case rollStage == 0:
		maxVal = havocBlkSmall
	case rollStage == 1:
		maxVal = havocBlkMedium
	default:
		if r.UR(10) != 0 {
			maxVal = havocBlkMedium
		} else {
			maxVal = HavocBlkLarge
		}
	}

	if maxVal > limit {
		maxVal = limit
	}

	if maxVal < 1 {
		maxVal = 1
	}

	return 1 + r.UR(maxVal)
}

// locateDiffs finds the lowest (first) and highest (last) index where
// a and b differ over the first n bytes of each. Returns first=-1,
// last=-1 if there is no difference.
func locateDiffs(a, b []byte, n int) (first, last int) {
	first, last = -1, -1

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if first == -1 {
				first = i
			}

			last = i
		}
	}

	return first, last
}

// Interesting-value tables (spec §4.2), stored widened to uint32 bit
// patterns of their declared width so table lookups stay uniform.
var (
	interesting8 = []uint32{
		u8(-128), u8(-1), u8(0), u8(1), u8(16), u8(32), u8(64), u8(100), u8(127),
	}
	interesting16 = append(append([]uint32{}, interesting8...),
		u16(-32768), u16(-129), u16(128), u16(255), u16(256), u16(512), u16(1000), u16(1024), u16(4096), u16(32767),
	)
	interesting32 = append(append([]uint32{}, interesting16...),
		u32(-2147483648), u32(-100663046), u32(-32769), u32(32768), u32(65535), u32(65536), u32(100663045), u32(2147483647),
	)
)

func u8(v int32) uint32  { return uint32(uint8(int8(v))) }
func u16(v int32) uint32 { return uint32(uint16(int16(v))) }
func u32(v int64) uint32 { return uint32(int32(v)) }
