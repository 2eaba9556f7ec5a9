// flashflags_test.go: Tests for the FlashFlags bridge
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"sort"
	"testing"

	flashflags "github.com/agilira/flash-flags"
	"github.com/google/go-cmp/cmp"
)

func bridgeConfig() Config {
	return Config{
		{Name: "help", Alias: "h", Filter: HelpFilter},
		{Name: "user-id", Filter: IntFilter, Default: 7, Help: "User id"},
		{Name: "ratio", Filter: FloatFilter, Default: 0.5},
		{Name: "verbose", Filter: FlagFilter},
		{Name: "enabled", Filter: BoolFilter, Default: true},
		{Name: "name", Filter: TransformFilter(double), Default: "anon"},
		{Name: "level", Filter: EnumFilter("debug", "info"), Default: "info"},
		{Name: "retries", Default: 3},
	}
}

func TestFlashFlagsRegistersArguments(t *testing.T) {
	fs := bridgeConfig().FlashFlags("app")

	var names []string
	fs.VisitAll(func(flag *flashflags.Flag) {
		names = append(names, flag.Name())
	})
	sort.Strings(names)

	want := []string{"enabled", "level", "name", "ratio", "retries", "user-id", "verbose"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("registered flags mismatch (-want +got):\n%s", diff)
	}
}

func TestFlashFlagsDefaults(t *testing.T) {
	fs := bridgeConfig().FlashFlags("app")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if got := fs.GetInt("user-id"); got != 7 {
		t.Errorf("GetInt(user-id) = %d, want 7", got)
	}
	if got := fs.GetBool("verbose"); got {
		t.Error("GetBool(verbose) = true, want false")
	}
	if got := fs.GetBool("enabled"); !got {
		t.Error("GetBool(enabled) = false, want true")
	}
	if got := fs.GetString("name"); got != "anon" {
		t.Errorf("GetString(name) = %q, want anon", got)
	}
	if got := fs.GetString("retries"); got != "3" {
		t.Errorf("GetString(retries) = %q, want 3", got)
	}
}

func TestFlashFlagsParse(t *testing.T) {
	fs := bridgeConfig().FlashFlags("app")

	err := fs.Parse([]string{"--user-id", "42", "--verbose", "--level", "debug"})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if got := fs.GetInt("user-id"); got != 42 {
		t.Errorf("GetInt(user-id) = %d, want 42", got)
	}
	if got := fs.GetBool("verbose"); !got {
		t.Error("GetBool(verbose) = false, want true")
	}
	if got := fs.GetString("level"); got != "debug" {
		t.Errorf("GetString(level) = %q, want debug", got)
	}
}

func TestFlashFlagsRejectsUndeclared(t *testing.T) {
	fs := bridgeConfig().FlashFlags("app")

	if err := fs.Parse([]string{"--unknown", "value"}); err == nil {
		t.Error("Parse() accepted an undeclared flag")
	}
}

func TestBridgeDefaults(t *testing.T) {
	if got := intDefault(int64(5)); got != 5 {
		t.Errorf("intDefault(int64) = %d", got)
	}
	if got := intDefault(2.9); got != 2 {
		t.Errorf("intDefault(float64) = %d", got)
	}
	if got := intDefault("5"); got != 0 {
		t.Errorf("intDefault(string) = %d", got)
	}
	if got := floatDefault(3); got != 3 {
		t.Errorf("floatDefault(int) = %v", got)
	}
	if got := floatDefault(nil); got != 0 {
		t.Errorf("floatDefault(nil) = %v", got)
	}
	if got := stringDefault(nil); got != "" {
		t.Errorf("stringDefault(nil) = %q", got)
	}
	if got := stringDefault(true); got != "true" {
		t.Errorf("stringDefault(bool) = %q", got)
	}
}
