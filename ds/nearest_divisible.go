package ds

import (
	"fmt"
)

// NearestDivisibleByM returns the smallest number that is not less than n
// and is divisible by m.
func NearestDivisibleByM(n int, m int) int {
	if m <= 0 {
		err := fmt.Errorf(
			`NearestDivisibleByM invalid divisor with n = %d and m = %d`,
			n, m,
		)
		panic(err)
	}
	remainder := n % m
	if remainder == 0 {
		return n
	}
	if remainder < 0 {
		return n - remainder
	}
	return n + m - remainder
}
