// Package checkdigit implements the check-digit algorithms used by L1
// identifier validation: ISO 17442 MOD 97-10 for LEIs and GS1 Mod-10 for
// GLNs, plus DUNS's simple fixed-length digit-count rule.
//
// Each helper returns a plain bool, never an error: a malformed or
// incorrect check digit is simply not-valid, not an exceptional failure.
package checkdigit

import "strconv"

// MOD9710 reports whether an LEI-shaped string satisfies the ISO 17442
// MOD 97-10 check: treating letters as their base-36 digit value
// (A=10..Z=35), the 20-character string mod 97 must equal 1.
func MOD9710(lei string) bool {
	if len(lei) != 20 {
		return false
	}
	remainder := 0
	for i := 0; i < len(lei); i++ {
		c := lei[i]
		var digits []int
		switch {
		case c >= '0' && c <= '9':
			digits = []int{int(c - '0')}
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			digits = []int{v / 10, v % 10}
		default:
			return false
		}
		for _, d := range digits {
			remainder = (remainder*10 + d) % 97
		}
	}
	return remainder == 1
}

// GS1Mod10 reports whether a GLN-shaped numeric string satisfies the GS1
// Mod-10 check digit algorithm: from the rightmost digit moving left,
// digits alternate weight 3 and 1; the check digit (last digit) must make
// the weighted sum a multiple of 10.
func GS1Mod10(gln string) bool {
	if len(gln) == 0 {
		return false
	}
	for _, c := range gln {
		if c < '0' || c > '9' {
			return false
		}
	}
	sum := 0
	// Weight the digits excluding the check digit, from the right, 3,1,3,1...
	body := gln[:len(gln)-1]
	weight := 3
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		sum += d * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	checkDigit := (10 - (sum % 10)) % 10
	actual, err := strconv.Atoi(string(gln[len(gln)-1]))
	if err != nil {
		return false
	}
	return checkDigit == actual
}

// ValidDUNS reports whether s is a well-formed 9-digit DUNS number. DUNS
// carries no published check-digit algorithm, so the L1 rule is a fixed
// digit count of 9, all numeric.
func ValidDUNS(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
