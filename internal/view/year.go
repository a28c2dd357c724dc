package view

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseYear reads the leading integer of s. Leading whitespace and a single
// sign are allowed and anything after the digits is ignored, so "1985",
// " 1985" and "1985 (reissue)" all give 1985. ok is false when no digits
// are found.
func ParseYear(s string) (year int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	// out of range values come back clamped, which still orders correctly
	year, _ = strconv.Atoi(sign + s[:digits])
	return year, true
}
