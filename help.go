// help.go: Help text rendering for cliargs
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"strings"
	"unicode/utf8"
)

const (
	helpHeader      = "HELP:\n\n"
	helpIndent      = "    "
	helpBodyIndent  = "        "
	shortFlagPrefix = "-"
	longFlagPrefix  = "--"
)

// renderHelp formats specs as:
//
//	HELP:
//
//	    --json -j
//	        Example of json
//
// Entries are separated by a blank line, with none after the last.
func renderHelp(specs []ArgumentSpec) string {
	var b strings.Builder
	b.WriteString(helpHeader)

	for i, spec := range specs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(helpIndent)
		b.WriteString(dashed(spec.Name))
		if spec.Alias != "" {
			b.WriteByte(' ')
			b.WriteString(dashed(spec.Alias))
		}
		b.WriteByte('\n')

		if spec.Help != "" {
			b.WriteString(helpBodyIndent)
			b.WriteString(spec.Help)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// dashed prefixes single-character names with "-" and longer ones with "--".
func dashed(name string) string {
	if utf8.RuneCountInString(name) == 1 {
		return shortFlagPrefix + name
	}
	return longFlagPrefix + name
}
