// filters.go: Filter variants for cliargs
//
// A Filter is a closed set of coercion rules, resolved once when the
// configuration is built. Dynamic declarations (schema files, maps built at
// runtime) go through ParseFilter, which accepts the same shapes a schema
// can express: a tag string, a list of allowed values or a function.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/agilira/go-errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilterKind identifies a filter variant.
type FilterKind uint8

const (
	// FilterNone passes the raw string through unchanged
	FilterNone FilterKind = iota
	// FilterFlag yields true when the argument appears at all
	FilterFlag
	// FilterBool maps yes/no words to a bool
	FilterBool
	// FilterInt parses a leading integer
	FilterInt
	// FilterFloat parses a leading decimal float
	FilterFloat
	// FilterJSON decodes a JSON document
	FilterJSON
	// FilterEnum matches against a fixed list of values
	FilterEnum
	// FilterTransform calls a user function
	FilterTransform
	// FilterHelp renders help text when the argument appears
	FilterHelp
)

var filterKindNames = [...]string{
	FilterNone:      "none",
	FilterFlag:      "flag",
	FilterBool:      "bool",
	FilterInt:       "int",
	FilterFloat:     "float",
	FilterJSON:      "json",
	FilterEnum:      "enum",
	FilterTransform: "transform",
	FilterHelp:      "help",
}

func (k FilterKind) String() string {
	if int(k) < len(filterKindNames) {
		return filterKindNames[k]
	}
	return "unknown"
}

// TransformFunc converts a raw command-line string into a value.
// It is only called when the argument carries a value.
type TransformFunc func(raw string) interface{}

// Filter is the coercion rule of an argument. The zero value is NoFilter.
type Filter struct {
	kind      FilterKind
	values    []interface{}
	transform TransformFunc
	label     string
}

// Predefined filters.
var (
	NoFilter    = Filter{}
	FlagFilter  = Filter{kind: FilterFlag}
	BoolFilter  = Filter{kind: FilterBool}
	IntFilter   = Filter{kind: FilterInt}
	FloatFilter = Filter{kind: FilterFloat}
	JSONFilter  = Filter{kind: FilterJSON}
	HelpFilter  = Filter{kind: FilterHelp}
)

// EnumFilter accepts only the given values. The resolved value is the
// matching element itself, keeping its declared type.
func EnumFilter(values ...interface{}) Filter {
	return Filter{kind: FilterEnum, values: append([]interface{}(nil), values...)}
}

// TransformFilter resolves values through fn.
func TransformFilter(fn TransformFunc) Filter {
	return Filter{kind: FilterTransform, transform: fn}
}

// namedTransform is a TransformFilter that remembers the name it was
// registered under, for diagnostics.
func namedTransform(name string, fn TransformFunc) Filter {
	return Filter{kind: FilterTransform, transform: fn, label: name}
}

// Kind returns the filter variant.
func (f Filter) Kind() FilterKind { return f.kind }

// Values returns the allowed values of an enum filter.
func (f Filter) Values() []interface{} {
	return append([]interface{}(nil), f.values...)
}

func (f Filter) String() string {
	switch f.kind {
	case FilterEnum:
		return fmt.Sprintf("enum%v", f.values)
	case FilterTransform:
		if f.label != "" {
			return "transform:" + f.label
		}
	}
	return f.kind.String()
}

// validate rejects filters that cannot work at resolution time.
func (f Filter) validate() error {
	if f.kind > FilterHelp {
		return errors.New(ErrCodeInvalidFilter, "unknown filter kind").
			WithContext("kind", fmt.Sprint(uint8(f.kind)))
	}
	if f.kind == FilterTransform && f.transform == nil {
		return errors.New(ErrCodeInvalidFilter, "transform filter requires a function")
	}
	return nil
}

// apply filters a raw value. The second result is false when the value is
// rejected and the default must be used instead. Flag and help filters
// depend on presence only and are resolved before apply.
func (f Filter) apply(raw string) (interface{}, bool) {
	switch f.kind {
	case FilterNone:
		return raw, true
	case FilterBool:
		return parseBoolWord(raw)
	case FilterInt:
		return parseIntPrefix(raw)
	case FilterFloat:
		return parseFloatPrefix(raw)
	case FilterJSON:
		return decodeJSON(raw)
	case FilterEnum:
		for _, allowed := range f.values {
			if looseEqual(allowed, raw) {
				return allowed, true
			}
		}
		return nil, false
	case FilterTransform:
		return f.transform(raw), true
	}
	return nil, false
}

// builtinTransforms can be referenced by name from schema files.
// Casers are stateful, so each call builds its own.
var builtinTransforms = map[string]TransformFunc{
	"title": func(raw string) interface{} { return cases.Title(language.Und).String(raw) },
	"upper": func(raw string) interface{} { return cases.Upper(language.Und).String(raw) },
	"lower": func(raw string) interface{} { return cases.Lower(language.Und).String(raw) },
	"trim":  func(raw string) interface{} { return strings.TrimSpace(raw) },
}

// ParseFilter converts a dynamic filter declaration into a Filter.
//
// Accepted shapes:
//   - nil or "" or "none": NoFilter
//   - "flag", "bool", "int", "float", "json", "help": the matching filter
//   - any other string: a transform registered in transforms, then the
//     built-in transforms (title, upper, lower, trim)
//   - a slice or array: an enum of its elements
//   - TransformFunc or func(string) interface{}: a transform
//   - Filter: returned as is
//
// Anything else is a configuration error (ErrCodeInvalidFilter).
func ParseFilter(v interface{}, transforms map[string]TransformFunc) (Filter, error) {
	switch f := v.(type) {
	case nil:
		return NoFilter, nil
	case Filter:
		return f, f.validate()
	case TransformFunc:
		return TransformFilter(f), TransformFilter(f).validate()
	case func(string) interface{}:
		return TransformFilter(f), TransformFilter(f).validate()
	case string:
		return parseFilterTag(f, transforms)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		values := make([]interface{}, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return EnumFilter(values...), nil
	}

	return NoFilter, errors.New(ErrCodeInvalidFilter, "unsupported filter declaration").
		WithContext("type", fmt.Sprintf("%T", v))
}

// parseFilterTag resolves a filter given by name.
func parseFilterTag(tag string, transforms map[string]TransformFunc) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "none":
		return NoFilter, nil
	case "flag":
		return FlagFilter, nil
	case "bool":
		return BoolFilter, nil
	case "int":
		return IntFilter, nil
	case "float":
		return FloatFilter, nil
	case "json":
		return JSONFilter, nil
	case "help":
		return HelpFilter, nil
	}

	if fn, ok := transforms[tag]; ok {
		if fn == nil {
			return NoFilter, errors.New(ErrCodeInvalidFilter, "transform registered without a function").
				WithContext("filter", tag)
		}
		return namedTransform(tag, fn), nil
	}
	if fn, ok := builtinTransforms[tag]; ok {
		return namedTransform(tag, fn), nil
	}

	return NoFilter, errors.New(ErrCodeInvalidFilter, "unknown filter").
		WithContext("filter", tag)
}
