// tokenizer.go: Argument vector tokenizer for cliargs
//
// Splits a process argument vector into named arguments and positional
// tokens. Grammar:
// - "--key=value" binds value to key (split at the first '=')
// - "--key" binds the next token when it does not start with '-'
// - "-abc" registers a, b and c; the last one may bind the next token
// - anything else is positional
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// RawValue is the raw string bound to a named argument.
// Set is false for a flag given without a value.
type RawValue struct {
	Value string
	Set   bool
}

// rawEntry keeps the argv position of the last write so aliases can be
// merged by recency.
type rawEntry struct {
	value RawValue
	seq   int
}

// RawArguments is the tokenizer output: the program path, named arguments in
// order of first appearance and positional tokens in argv order.
// It is never modified after Tokenize returns, so it can be shared freely.
type RawArguments struct {
	program    string
	names      []string
	entries    map[string]rawEntry
	positional []string
}

// Tokenize converts argv (program path at index 0) into RawArguments.
// It never fails: every token is accepted and ambiguity is resolved by the
// grammar described at the top of this file.
func Tokenize(argv []string) *RawArguments {
	raw := &RawArguments{entries: make(map[string]rawEntry)}
	if len(argv) == 0 {
		return raw
	}

	raw.program = argv[0]
	args := argv[1:]

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case isLongFlag(arg):
			name := arg[2:]
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				raw.set(name[:eq], RawValue{Value: name[eq+1:], Set: true}, i)
				continue
			}
			i = raw.bindNext(name, args, i)

		case isShortBundle(arg):
			// Every character is a name, including punctuation: "-abc=e"
			// registers a, b, c, "=" and e.
			bundle := splitBundle(arg[1:])
			for _, name := range bundle[:len(bundle)-1] {
				raw.set(name, RawValue{}, i)
			}
			i = raw.bindNext(bundle[len(bundle)-1], args, i)

		default:
			raw.positional = append(raw.positional, arg)
		}
	}

	return raw
}

// splitBundle cuts s into one name per character. A byte that is not valid
// UTF-8 becomes a name of its own, so joining the names gives back s.
func splitBundle(s string) []string {
	names := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		names = append(names, s[i:i+size])
		i += size
	}
	return names
}

// isLongFlag reports whether arg is "--name" or "--name=value" with a
// non-empty name. A bare "--" is positional.
func isLongFlag(arg string) bool {
	return len(arg) > 2 && strings.HasPrefix(arg, "--") && arg[2] != '='
}

// isShortBundle reports whether arg is "-x..." but not "--...". A bare "-"
// is positional.
func isShortBundle(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && arg[1] != '-'
}

// bindNext registers name, consuming args[i+1] as its value when it does
// not look like a flag. It returns the index of the last consumed token.
func (r *RawArguments) bindNext(name string, args []string, i int) int {
	if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
		r.set(name, RawValue{Value: args[i+1], Set: true}, i)
		return i + 1
	}
	r.set(name, RawValue{}, i)
	return i
}

// set records a value. A repeated name overwrites the value and its seq but
// keeps its place in names.
func (r *RawArguments) set(name string, value RawValue, seq int) {
	if _, exists := r.entries[name]; !exists {
		r.names = append(r.names, name)
	}
	r.entries[name] = rawEntry{value: value, seq: seq}
}

// Program returns argv[0].
func (r *RawArguments) Program() string { return r.program }

// Names returns the named arguments in order of first appearance.
func (r *RawArguments) Names() []string {
	return append([]string(nil), r.names...)
}

// Positional returns the positional tokens in argv order.
func (r *RawArguments) Positional() []string {
	return append([]string(nil), r.positional...)
}

// Lookup returns the raw value bound to name.
func (r *RawArguments) Lookup(name string) (RawValue, bool) {
	entry, ok := r.entries[name]
	return entry.value, ok
}

// Has reports whether name appeared on the command line.
func (r *RawArguments) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of distinct named arguments.
func (r *RawArguments) Len() int { return len(r.names) }

// latest returns the value of whichever of name and alias was written last.
// On a tie (same bundle) the primary name wins.
func (r *RawArguments) latest(name, alias string) (RawValue, bool) {
	primary, hasPrimary := r.entries[name]
	if alias == "" {
		return primary.value, hasPrimary
	}
	secondary, hasSecondary := r.entries[alias]
	switch {
	case hasPrimary && hasSecondary:
		if secondary.seq > primary.seq {
			return secondary.value, true
		}
		return primary.value, true
	case hasSecondary:
		return secondary.value, true
	default:
		return primary.value, hasPrimary
	}
}

// MarshalJSON renders the arguments as
// {"program": ..., "named": {...}, "positional": [...]}, keeping the named
// arguments in command-line order. Valueless flags are rendered as null.
func (r *RawArguments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	program, err := json.Marshal(r.program)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"program":`)
	buf.Write(program)

	buf.WriteString(`,"named":{`)
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value := r.entries[name].value
		if !value.Set {
			buf.WriteString("null")
			continue
		}
		encoded, err := json.Marshal(value.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteString(`},"positional":`)

	positional := r.positional
	if positional == nil {
		positional = []string{}
	}
	encoded, err := json.Marshal(positional)
	if err != nil {
		return nil, err
	}
	buf.Write(encoded)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
