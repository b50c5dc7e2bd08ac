package pdb

import (
	"fmt"
	"strconv"
)

// ParseASN extracts an AS number from user input, tolerating decorated
// forms such as "AS210083" or "as-210083" by keeping only the digits.
func ParseASN(s string) (uint32, error) {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) == 0 {
		return 0, fmt.Errorf("no AS number in %q", s)
	}
	n, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing AS number from %q: %w", s, err)
	}
	return uint32(n), nil
}
