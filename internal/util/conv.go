package util

import "strconv"

// ParseUintOrZero parses an unsigned integer path/query parameter. Failure
// yields 0, which callers treat as a missing parameter.
func ParseUintOrZero(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
