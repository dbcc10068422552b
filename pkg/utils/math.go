package utils

// Unit conversions.
const (
	KiB = 1 << 10
	MiB = 1 << 20
)

// DivCeil returns a/b rounded up. b must not be zero.
func DivCeil(a, b uint32) uint32 {
	ret := a / b
	if a%b != 0 {
		return ret + 1
	}
	return ret
}

// fallingFactorial returns from * (from-1) * ... * to, or 1 if to > from.
func fallingFactorial(from, to uint64) uint64 {
	ret := uint64(1)
	for i := from; i >= to && i > 0; i-- {
		ret *= i
	}
	return ret
}

// Permutation returns n!/(n-r)!. It returns 0 when r > n.
// There is no overflow protection.
func Permutation(n, r uint64) uint64 {
	if r > n {
		return 0
	}
	if r == 0 {
		return 1
	}
	return fallingFactorial(n, n-r+1)
}

// Combination returns n!/(r!(n-r)!). It returns 0 when r > n.
// There is no overflow protection.
func Combination(n, r uint64) uint64 {
	if r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	if r == 0 {
		return 1
	}
	return fallingFactorial(n, n-r+1) / fallingFactorial(r, 1)
}

// BitSet sets bit pos of b.
func BitSet(b byte, pos uint) byte {
	return b | 1<<pos
}

// BitClear clears bit pos of b.
func BitClear(b byte, pos uint) byte {
	return b &^ (1 << pos)
}
