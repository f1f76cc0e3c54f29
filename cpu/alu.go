package cpu

// The carry/borrow family is implemented as pure functions of the
// operand bytes. Each returns the new value for vX and the flag byte
// for vf, so the flag polarity of every operation is testable in
// isolation.

// addCarry adds y to x as an 8-bit operation. When the sum exceeds
// 255 the flag is 1 and x is returned unmodified; the truncated sum
// is not stored. Otherwise the flag is 0 and the sum is returned.
func addCarry(x, y uint8) (out uint8, flag uint8) {
	sum := uint16(x) + uint16(y)
	if sum > 0xff {
		return x, 1
	}

	return uint8(sum), 0
}

// subBorrow subtracts y from x. When no borrow occurs (x >= y) the
// flag is 1 and the difference is returned. On borrow the flag is 0
// and x is returned unmodified.
func subBorrow(x, y uint8) (out uint8, flag uint8) {
	if x < y {
		return x, 0
	}

	return x - y, 1
}

// rsubBorrow subtracts x from y, with the same borrow polarity as
// subBorrow: flag 1 and the difference when y >= x, flag 0 and x
// unmodified on borrow.
func rsubBorrow(x, y uint8) (out uint8, flag uint8) {
	if y < x {
		return x, 0
	}

	return y - x, 1
}

// shiftRight shifts x right one bit, zero-filled. The flag captures
// the least-significant bit before the shift.
func shiftRight(x uint8) (out uint8, flag uint8) {
	return x >> 1, x & 1
}

// shiftLeft shifts x left one bit, truncated to 8 bits; the bit
// shifted past bit 7 is discarded. The flag captures the
// most-significant bit before the shift when msb is set, otherwise
// the least-significant bit.
func shiftLeft(x uint8, msb bool) (out uint8, flag uint8) {
	flag = x & 1
	if msb {
		flag = (x >> 7) & 1
	}

	return x << 1, flag
}
