package bitvec

import "golang.org/x/exp/constraints"

// clamp restricts x to [lo, hi]. Nothing in the package calls it: the
// modular path wraps via BitVec.wrap and the fixed-point path bounds-checks
// in setReal.
func clamp[T constraints.Integer](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// bitsFor returns the minimum number of bits needed to represent values up
// to n (n >= 0); bitLength uses it in plain-vector width derivation.
func bitsFor[T constraints.Integer](n T) int {
	count := 0
	for n > 0 {
		count++
		n >>= 1
	}
	if count == 0 {
		count = 1
	}
	return count
}
