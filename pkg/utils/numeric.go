package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// ParseIntPrefix parses the longest base-10 integer prefix of s.
// Leading whitespace and a single sign are accepted; trailing garbage is
// ignored ("123abc" → 123, "1.9e3" → 1). ok is false when no digits are found
// or the value does not fit in an int64.
func ParseIntPrefix(s string) (n int64, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloatPrefix parses the longest decimal floating-point prefix of s,
// including an optional exponent. Infinity and NaN are rejected.
func ParseFloatPrefix(s string) (f float64, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	intDigits := scanDigits(s, end)
	end += intDigits
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = scanDigits(s, end+1)
		if intDigits > 0 || fracDigits > 0 {
			end += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if n := scanDigits(s, exp); n > 0 {
			end = exp + n
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func scanDigits(s string, from int) int {
	n := 0
	for i := from; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n++
	}
	return n
}

// IntOrZero coerces a raw JSON value to an integer, yielding 0 when the value
// is absent, null, non-numeric or out of range. Strings are parsed with
// ParseIntPrefix; numbers are truncated toward zero.
func IntOrZero(v gjson.Result) int64 {
	switch v.Type {
	case gjson.String:
		if n, ok := ParseIntPrefix(v.Str); ok {
			return n
		}
	case gjson.Number:
		if math.IsNaN(v.Num) || v.Num >= math.MaxInt64 || v.Num <= math.MinInt64 {
			return 0
		}
		return int64(v.Num)
	}
	return 0
}

// FloatOr coerces a raw JSON value to a float, yielding fallback when the value
// is absent, non-numeric or zero. Zero falls back as well, matching how the
// profile price has always been served.
func FloatOr(v gjson.Result, fallback float64) float64 {
	var (
		f  float64
		ok bool
	)
	switch v.Type {
	case gjson.String:
		f, ok = ParseFloatPrefix(v.Str)
	case gjson.Number:
		f, ok = v.Num, !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0)
	}
	if !ok || f == 0 {
		return fallback
	}
	return f
}

// StringOrEmpty returns the textual form of a raw JSON value, or "" when it is
// absent or null.
func StringOrEmpty(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

// Truthy reports whether a raw JSON value counts as set: a non-empty string,
// a non-zero number, true, or any object or array.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}
