// flashflags.go: Bridge from cliargs declarations to FlashFlags
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"fmt"

	flashflags "github.com/agilira/flash-flags"
)

// FlashFlags declares every argument of c on a new FlashFlags set named
// appName, so one declaration can drive both parsers.
//
// Mapping: IntFilter becomes Int, FloatFilter becomes Float64, BoolFilter
// and FlagFilter become Bool, everything else a String. Defaults carry over
// when their type fits. Help arguments are skipped because FlashFlags
// renders its own help. Aliases are not registered.
func (c Config) FlashFlags(appName string) *flashflags.FlagSet {
	fs := flashflags.New(appName)

	for _, spec := range c {
		switch spec.Filter.kind {
		case FilterHelp:
			continue
		case FilterInt:
			fs.Int(spec.Name, intDefault(spec.Default), spec.Help)
		case FilterFloat:
			fs.Float64(spec.Name, floatDefault(spec.Default), spec.Help)
		case FilterBool, FilterFlag:
			b, _ := spec.Default.(bool)
			fs.Bool(spec.Name, b, spec.Help)
		default:
			fs.String(spec.Name, stringDefault(spec.Default), spec.Help)
		}
	}

	return fs
}

func intDefault(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func floatDefault(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func stringDefault(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}
