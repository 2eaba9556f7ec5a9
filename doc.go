// Package cliargs turns a process argument vector into typed values, driven
// by a declarative configuration of the arguments a program accepts.
//
// # Philosophy
//
// Command-line input is untrusted and often sloppy. cliargs never fails on
// it: a value that does not pass its filter silently falls back to the
// declared default. Only a broken configuration is an error, and it is
// reported once, at construction.
//
// # Tokenizing
//
// Tokenize splits argv (program path first) into named arguments and
// positional tokens:
//
//	--key=value    key bound to "value" (split at the first '=')
//	--key value    key bound to "value" unless value starts with '-'
//	--key          key present without a value
//	-abc           a, b and c present; c may bind the next token
//	anything else  positional
//
// A repeated name keeps its last value. Tokenizing is available on its own
// through Tokenize or GetArguments, without any configuration.
//
// # Declaring Arguments
//
// A Config lists the accepted arguments. Each has a primary Name, an
// optional Alias, a Filter, a Default and a Help text:
//
//	args, err := cliargs.New(os.Args, cliargs.Config{
//		{Name: "help", Alias: "h", Filter: cliargs.HelpFilter},
//		{Name: "verbose", Alias: "v", Filter: cliargs.FlagFilter, Default: false},
//		{Name: "user-id", Alias: "u", Filter: cliargs.IntFilter, Default: 0},
//		{Name: "level", Filter: cliargs.EnumFilter("debug", "info"), Default: "info"},
//		{Name: "name", Filter: cliargs.TransformFilter(func(s string) interface{} {
//			return strings.ToUpper(s)
//		})},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Every argument is resolved once, inside New. GetArg, GetArgs and the other
// queries are plain reads and safe for concurrent use.
//
// # Filters
//
//   - NoFilter: the raw string
//   - FlagFilter: true when present, regardless of any value
//   - BoolFilter: 1/true/yes and 0/false/no, case-insensitive
//   - IntFilter, FloatFilter: leading number, trailing garbage ignored
//   - JSONFilter: decoded JSON document
//   - EnumFilter: the declared element loosely equal to the input, so
//     EnumFilter(1, 2, 3) resolves "1" to the int 1
//   - TransformFilter: whatever the function returns
//   - HelpFilter: rendered help text
//
// # Help
//
// When a help argument is present its value is the help text for the whole
// configuration, or for a single argument when the help flag is followed by
// that argument's name ("--help json"):
//
//	HELP:
//
//	    --help -h
//
//	    --json -j
//	        Example of json
//
// # Binding
//
// Bind copies resolved values into typed variables:
//
//	var userID int
//	err := args.Bind().Int(&userID, "user-id").Apply()
//
// Arguments that resolved to nil leave their variable unchanged.
//
// # Schemas
//
// A Config can be loaded from YAML, TOML or JSON with LoadSchema. Filters
// are given by tag ("int", "flag"), as a list of allowed values, or by the
// name of a transform ("title", "upper", or one passed in by the caller).
//
// # Auditing
//
// An AuditLogger passed through WithAudit records tokenized command lines,
// rejected values, rendered help and refused configurations, in SQLite or
// rotating JSONL files.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package cliargs
