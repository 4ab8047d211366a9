package thirdvm

// digitValue maps an ASCII byte to its digit value under an arbitrary base,
// matching original_source's digit_val: decimal digits map directly, every
// other byte maps via 'a' regardless of case or base, so a digit at or past
// base simply fails to parse rather than erroring outright.
func digitValue(c byte) uint32 {
	if c >= '0' && c <= '9' {
		return uint32(c - '0')
	}
	return uint32(c) - uint32('a') + 10
}

// parseNumber parses token under the given BASE, returning the accumulated
// value and the count of trailing bytes left unconsumed. A nonzero
// unconsumed means the token is not a well-formed number at all -- the
// caller treats it as an unknown word, partial numeric prefixes are never
// accepted.
//
// A leading '-' is a sign only when at least one byte follows it; a lone
// "-" (or a '-' followed immediately by a non-digit) consumes nothing and
// reports the whole token as unconsumed, per original_source's parse_number.
func parseNumber(token []byte, base uint32) (value uint32, unconsumed uint32) {
	n := uint32(len(token))
	var offs uint32
	sign := int32(1)
	if n > 1 && token[0] == '-' {
		sign = -1
		offs = 1
	}
	var result uint32
	for offs < n {
		v := digitValue(token[offs])
		if v >= base {
			break
		}
		result = result*base + v
		offs++
	}
	if sign == -1 && offs == 1 {
		return 0, n
	}
	return uint32(int32(result) * sign), n - offs
}
