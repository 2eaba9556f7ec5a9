// values.go: Raw value coercion for cliargs filters
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// parseIntPrefix parses the leading integer of s: "123abc" -> 123,
// "123.45" -> 123, " -7" -> -7. Values without digits or out of int range
// are rejected.
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := scanSign(s, 0)
	digits := scanDigits(s, end)
	if digits == end {
		return 0, false
	}

	n, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloatPrefix parses the leading decimal float of s: "1.5e3x" -> 1500.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := scanFloat(s)
	if end == 0 {
		return 0, false
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumeric accepts only a complete decimal number (surrounding spaces
// allowed). Unlike strconv.ParseFloat it rejects "inf", "nan" and hex forms.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := scanFloat(s)
	if end == 0 || end != len(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// scanFloat returns the length of the decimal float prefix of s, or 0.
// Grammar: [+-] digits [. digits] | [+-] . digits, then optional e[+-]digits.
func scanFloat(s string) int {
	i := scanSign(s, 0)
	intEnd := scanDigits(s, i)
	end := intEnd

	if end < len(s) && s[end] == '.' {
		fracEnd := scanDigits(s, end+1)
		if fracEnd > end+1 || intEnd > i {
			end = fracEnd
		}
	}
	if end == i {
		return 0
	}

	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		expStart := scanSign(s, end+1)
		if expEnd := scanDigits(s, expStart); expEnd > expStart {
			end = expEnd
		}
	}
	return end
}

func scanSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// parseBoolWord maps 1 and 0, or any leading part of true/yes and false/no,
// case-insensitively: "y", "tru" and "F" are all accepted.
func parseBoolWord(s string) (bool, bool) {
	word := strings.ToLower(strings.TrimSpace(s))
	switch word {
	case "":
		return false, false
	case "1":
		return true, true
	case "0":
		return false, true
	}
	for _, w := range []string{"true", "yes"} {
		if strings.HasPrefix(w, word) {
			return true, true
		}
	}
	for _, w := range []string{"false", "no"} {
		if strings.HasPrefix(w, word) {
			return false, true
		}
	}
	return false, false
}

// decodeJSON decodes s into maps, slices and scalars. A JSON null counts as
// no value.
func decodeJSON(s string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, v != nil
}

// looseEqual compares a declared enum element with a raw command-line string
// the way a loosely typed comparison would, one explicit rule per type:
// - strings match exactly, or numerically when both are numbers ("1" == "01")
// - numbers match a raw string holding the same number
// - bools match the words accepted by the bool filter
// - nil matches the empty string
func looseEqual(declared interface{}, raw string) bool {
	switch d := declared.(type) {
	case nil:
		return raw == ""
	case string:
		if d == raw {
			return true
		}
		a, aok := parseNumeric(d)
		b, bok := parseNumeric(raw)
		return aok && bok && a == b
	case bool:
		b, ok := parseBoolWord(raw)
		return ok && b == d
	case json.Number:
		return looseEqual(d.String(), raw)
	}

	rv := reflect.ValueOf(declared)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return n == rv.Int()
		}
		f, ok := parseNumeric(raw)
		return ok && f == float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil {
			return n == rv.Uint()
		}
		f, ok := parseNumeric(raw)
		return ok && f == float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f, ok := parseNumeric(raw)
		return ok && f == rv.Float()
	}

	return fmt.Sprint(declared) == raw
}
