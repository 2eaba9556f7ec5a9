// cliargs_test.go: Resolution tests for cliargs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/agilira/go-errors"
	"github.com/google/go-cmp/cmp"
)

const testProgram = "/usr/bin/app"

// mustNew builds CliArgs from the given tokens, failing the test on error.
func mustNew(t *testing.T, config Config, args ...string) *CliArgs {
	t.Helper()
	c, err := New(append([]string{testProgram}, args...), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func double(raw string) interface{} {
	n, _ := strconv.Atoi(raw)
	return n * 2
}

func TestGetArgFilters(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		config Config
		arg    string
		want   interface{}
	}{
		// json
		{"json_without_value", []string{"--json"}, Config{{Name: "json", Filter: JSONFilter}}, "json", nil},
		{"json_by_alias", []string{"-j", `{"a":1,"b":2,"c":3}`}, Config{{Name: "json", Filter: JSONFilter, Alias: "j"}}, "j",
			map[string]interface{}{"a": float64(1), "b": float64(2), "c": float64(3)}},
		{"json_short_primary", []string{"-j", `{"a":1}`}, Config{{Name: "j", Filter: JSONFilter, Alias: "json"}}, "j",
			map[string]interface{}{"a": float64(1)}},
		{"json_invalid_uses_default", []string{"--json", "{broken"}, Config{{Name: "json", Filter: JSONFilter, Default: "none"}}, "json", "none"},
		{"json_null_uses_default", []string{"--json", "null"}, Config{{Name: "json", Filter: JSONFilter, Default: "none"}}, "json", "none"},
		{"json_array", []string{"--json", "[1,\"a\"]"}, Config{{Name: "json", Filter: JSONFilter}}, "json", []interface{}{float64(1), "a"}},

		// flag
		{"flag_present", []string{"-f"}, Config{{Name: "f", Filter: FlagFilter}}, "f", true},
		{"flag_absent", []string{"-a"}, Config{{Name: "f", Filter: FlagFilter}}, "f", nil},
		{"flag_absent_default", []string{"-a"}, Config{{Name: "f", Filter: FlagFilter, Default: false}}, "f", false},
		{"flag_short_queried_by_alias", []string{"-f"}, Config{{Name: "f", Filter: FlagFilter, Alias: "flag"}}, "flag", true},
		{"flag_long_queried_by_alias", []string{"--flag"}, Config{{Name: "flag", Filter: FlagFilter, Alias: "f"}}, "f", true},
		{"flag_with_value", []string{"--flag", "foo"}, Config{{Name: "flag", Filter: FlagFilter, Alias: "f"}}, "f", true},

		// bool
		{"bool_without_value", []string{"-b"}, Config{{Name: "b", Filter: BoolFilter}}, "b", nil},
		{"bool_without_value_default", []string{"-b"}, Config{{Name: "b", Filter: BoolFilter, Default: false}}, "b", false},
		{"bool_false", []string{"-b", "false"}, Config{{Name: "b", Filter: BoolFilter}}, "b", false},
		{"bool_NO", []string{"-b", "NO"}, Config{{Name: "b", Filter: BoolFilter}}, "b", false},
		{"bool_0", []string{"-b", "0"}, Config{{Name: "b", Filter: BoolFilter}}, "b", false},
		{"bool_1", []string{"-b", "1"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_True", []string{"-b", "True"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_YES", []string{"-b", "YES"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_by_alias", []string{"-b", "YES"}, Config{{Name: "b", Filter: BoolFilter, Alias: "bool"}}, "bool", true},
		{"bool_prefix_y", []string{"-b", "y"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_prefix_Ye", []string{"-b", "Ye"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_prefix_tru", []string{"-b", "tru"}, Config{{Name: "b", Filter: BoolFilter}}, "b", true},
		{"bool_prefix_n", []string{"-b", "n"}, Config{{Name: "b", Filter: BoolFilter}}, "b", false},
		{"bool_prefix_f", []string{"-b", "f"}, Config{{Name: "b", Filter: BoolFilter}}, "b", false},
		{"bool_unknown_word", []string{"-b", "maybe"}, Config{{Name: "b", Filter: BoolFilter}}, "b", nil},
		{"bool_unknown_word_default", []string{"-b", "maybe"}, Config{{Name: "b", Filter: BoolFilter, Default: true}}, "b", true},

		// float
		{"float_without_value", []string{"-f"}, Config{{Name: "f", Filter: FloatFilter}}, "f", nil},
		{"float_without_value_default", []string{"-f"}, Config{{Name: "f", Filter: FloatFilter, Default: 0.0}}, "f", 0.0},
		{"float_value", []string{"-f", "123.45"}, Config{{Name: "f", Filter: FloatFilter, Default: 0.0}}, "f", 123.45},
		{"float_by_alias", []string{"--float", "123.45"}, Config{{Name: "f", Filter: FloatFilter, Default: 0.0, Alias: "float"}}, "f", 123.45},
		{"float_prefix", []string{"-f", "1.5e2kg"}, Config{{Name: "f", Filter: FloatFilter}}, "f", 150.0},
		{"float_garbage", []string{"-f", "abc"}, Config{{Name: "f", Filter: FloatFilter, Default: -1.0}}, "f", -1.0},

		// int
		{"int_without_value", []string{"-i"}, Config{{Name: "i", Filter: IntFilter}}, "i", nil},
		{"int_without_value_default", []string{"-i"}, Config{{Name: "i", Filter: IntFilter, Default: 0}}, "i", 0},
		{"int_value", []string{"-i", "123"}, Config{{Name: "i", Filter: IntFilter, Default: 0}}, "i", 123},
		{"int_truncates_float", []string{"--foo", "123.45"}, Config{{Name: "f", Filter: IntFilter, Default: 0, Alias: "foo"}}, "f", 123},
		{"int_prefix", []string{"--foo", "123abc"}, Config{{Name: "f", Filter: IntFilter, Default: 0, Alias: "foo"}}, "f", 123},
		{"int_garbage", []string{"--foo", "abc"}, Config{{Name: "f", Filter: IntFilter, Default: 7, Alias: "foo"}}, "f", 7},
		{"int_absent_default", []string{}, Config{{Name: "i", Filter: IntFilter, Default: 0}}, "i", 0},
		{"int_overflow", []string{"-i", "99999999999999999999999"}, Config{{Name: "i", Filter: IntFilter, Default: 0}}, "i", 0},

		// transform
		{"transform_without_value", []string{"-i"}, Config{{Name: "i", Filter: TransformFilter(double)}}, "i", nil},
		{"transform_value", []string{"-i", "5"}, Config{{Name: "i", Filter: TransformFilter(double)}}, "i", 10},
		{"transform_by_alias", []string{"--func", "15"}, Config{{Name: "i", Filter: TransformFilter(double), Alias: "func"}}, "i", 30},
		{"transform_title_case", []string{"--name", "alexander cheprasov"}, Config{{Name: "n", Filter: namedTransform("title", builtinTransforms["title"]), Alias: "name"}}, "n", "Alexander Cheprasov"},

		// enum
		{"enum_without_value", []string{"-e"}, Config{{Name: "e", Filter: EnumFilter(1, 2, 3)}}, "e", nil},
		{"enum_without_value_default", []string{"-e"}, Config{{Name: "e", Filter: EnumFilter(1, 2, 3), Default: 0}}, "e", 0},
		{"enum_loose_int", []string{"-e", "1"}, Config{{Name: "e", Filter: EnumFilter(1, 2, 3), Default: 0}}, "e", 1},
		{"enum_string", []string{"-e", "1"}, Config{{Name: "e", Filter: EnumFilter("1", "2", "3")}}, "e", "1"},
		{"enum_string_second", []string{"-e", "2"}, Config{{Name: "e", Filter: EnumFilter("1", "2", "3")}}, "e", "2"},
		{"enum_no_match", []string{"-e", "4"}, Config{{Name: "e", Filter: EnumFilter("1", "2", "3")}}, "e", nil},
		{"enum_first_match_wins", []string{"-e", "1"}, Config{{Name: "e", Filter: EnumFilter("01", 1)}}, "e", "01"},

		// no filter
		{"none_short", []string{"-e", "42"}, Config{{Name: "e"}}, "e", "42"},
		{"none_long", []string{"--foo", "42"}, Config{{Name: "foo"}}, "foo", "42"},
		{"none_without_value", []string{"--foo"}, Config{{Name: "foo"}}, "foo", nil},
		{"none_empty_value", []string{"--foo="}, Config{{Name: "foo", Default: "x"}}, "foo", ""},

		// undeclared
		{"undeclared_without_config", []string{"--foo", "bar"}, nil, "foo", nil},
		{"undeclared_with_config", []string{"--foo", "bar"}, Config{{Name: "bar"}}, "foo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, tt.config, tt.args...)
			if diff := cmp.Diff(tt.want, c.GetArg(tt.arg)); diff != "" {
				t.Errorf("GetArg(%q) mismatch (-want +got):\n%s", tt.arg, diff)
			}
		})
	}
}

func TestGetArgFlagPresenceByNameOrAlias(t *testing.T) {
	config := Config{{Name: "foo", Filter: FlagFilter, Alias: "f"}}

	for _, args := range [][]string{{"--foo"}, {"-f"}, {"--foo", "value"}, {"-f", "value"}, {"-xf"}} {
		if got := mustNew(t, config, args...).GetArg("foo"); got != true {
			t.Errorf("args %v: GetArg(foo) = %v, want true", args, got)
		}
	}
	for _, args := range [][]string{{}, {"foo"}, {"--bar"}, {"-x"}} {
		if got := mustNew(t, config, args...).GetArg("foo"); got != nil {
			t.Errorf("args %v: GetArg(foo) = %v, want nil", args, got)
		}
	}
}

func TestLongFormsAreEquivalent(t *testing.T) {
	config := Config{{Name: "foo"}}

	withEquals := mustNew(t, config, "--foo=bar").GetArg("foo")
	withSpace := mustNew(t, config, "--foo", "bar").GetArg("foo")

	if withEquals != "bar" || withSpace != "bar" {
		t.Errorf("--foo=bar -> %v, --foo bar -> %v, want bar for both", withEquals, withSpace)
	}
}

func TestAliasRecency(t *testing.T) {
	config := Config{{Name: "level", Alias: "l"}}

	if got := mustNew(t, config, "--level", "debug", "-l", "info").GetArg("level"); got != "info" {
		t.Errorf("alias given last: got %v, want info", got)
	}
	if got := mustNew(t, config, "-l", "info", "--level", "debug").GetArg("level"); got != "debug" {
		t.Errorf("name given last: got %v, want debug", got)
	}
}

func TestHelpFilter(t *testing.T) {
	helpAndJSON := Config{
		{Name: "help", Filter: HelpFilter, Alias: "h"},
		{Name: "json", Filter: JSONFilter, Alias: "j", Help: "Example of json"},
	}
	shortFirst := Config{
		{Name: "h", Filter: HelpFilter, Alias: "help"},
		{Name: "j", Filter: JSONFilter, Alias: "json", Help: "Example of json"},
	}
	full := "HELP:\n\n    --help -h\n\n    --json -j\n        Example of json\n"
	jsonOnly := "HELP:\n\n    --json -j\n        Example of json\n"

	tests := []struct {
		name   string
		args   []string
		config Config
		want   string
	}{
		{"help_only", []string{"--help"}, Config{{Name: "help", Filter: HelpFilter}}, "HELP:\n\n    --help\n"},
		{"help_with_alias", []string{"--help"}, Config{{Name: "help", Filter: HelpFilter, Alias: "h"}}, "HELP:\n\n    --help -h\n"},
		{"long", []string{"--help"}, helpAndJSON, full},
		{"short", []string{"-h"}, helpAndJSON, full},
		{"short_single_by_name", []string{"-h", "json"}, helpAndJSON, jsonOnly},
		{"short_single_by_alias", []string{"-h", "j"}, helpAndJSON, jsonOnly},
		{"long_single_by_alias", []string{"--help", "j"}, helpAndJSON, jsonOnly},
		{"long_single_by_name", []string{"--help", "json"}, helpAndJSON, jsonOnly},
		{"long_unknown_target", []string{"--help", "nothing"}, helpAndJSON, full},
		{"help_target_is_help", []string{"--help", "help"}, helpAndJSON, full},
		{"help_target_is_help_alias", []string{"-h", "h"}, helpAndJSON, full},
		{"short_keys_first", []string{"--help", "json"}, shortFirst, "HELP:\n\n    -j --json\n        Example of json\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, tt.config, tt.args...)

			if !c.IsFlagExists("help", "h") {
				t.Error("IsFlagExists(help, h) = false, want true")
			}
			if !c.HelpRequested() {
				t.Error("HelpRequested() = false, want true")
			}
			if got := c.GetArg("help"); got != tt.want {
				t.Errorf("GetArg(help) =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestHelpFilterAbsent(t *testing.T) {
	c := mustNew(t, Config{{Name: "help", Filter: HelpFilter, Alias: "h"}}, "--verbose")

	if c.HelpRequested() {
		t.Error("HelpRequested() = true without a help flag")
	}
	if got := c.GetArg("help"); got != nil {
		t.Errorf("GetArg(help) = %v, want nil", got)
	}
}

func TestHelpRenderersWithoutFlag(t *testing.T) {
	config := Config{
		{Name: "user-id", Alias: "u", Filter: IntFilter, Help: "User id"},
		{Name: "v", Filter: FlagFilter},
	}
	c := mustNew(t, config)

	want := "HELP:\n\n    --user-id -u\n        User id\n\n    -v\n"
	if got := c.Help(); got != want {
		t.Errorf("Help() =\n%q\nwant\n%q", got, want)
	}

	single, ok := c.HelpFor("u")
	if !ok || single != "HELP:\n\n    --user-id -u\n        User id\n" {
		t.Errorf("HelpFor(u) = %q, %v", single, ok)
	}
	if _, ok := c.HelpFor("missing"); ok {
		t.Error("HelpFor(missing) reported a declared argument")
	}
}

func TestGetArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		config Config
		want   map[string]interface{}
	}{
		{"no_config", []string{"--foo", "bar"}, nil, map[string]interface{}{}},
		{"plain", []string{"--foo", "bar"}, Config{{Name: "foo"}}, map[string]interface{}{"foo": "bar"}},
		{"flag", []string{"--foo", "bar"}, Config{{Name: "foo", Filter: FlagFilter}}, map[string]interface{}{"foo": true}},
		{"int_without_value", []string{"--user-id"}, Config{{Name: "user-id", Filter: IntFilter, Default: 0}}, map[string]interface{}{"user-id": 0}},
		{"int_space", []string{"--user-id", "42"}, Config{{Name: "user-id", Filter: IntFilter, Default: 0}}, map[string]interface{}{"user-id": 42}},
		{"int_equals", []string{"--user-id=42"}, Config{{Name: "user-id", Filter: IntFilter, Default: 0}}, map[string]interface{}{"user-id": 42}},
		{
			"only_declared",
			[]string{"--user-id=32", "--sex=m", "--city=London", "--name=Alexander"},
			Config{
				{Name: "user-id", Filter: IntFilter, Default: 0},
				{Name: "sex", Filter: EnumFilter("m", "f")},
				{Name: "city"},
			},
			map[string]interface{}{"user-id": 32, "sex": "m", "city": "London"},
		},
		{
			"absent_arguments_present_with_default",
			[]string{},
			Config{{Name: "a", Default: "x"}, {Name: "b"}},
			map[string]interface{}{"a": "x", "b": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNew(t, tt.config, tt.args...).GetArgs()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetArgsReturnsCopy(t *testing.T) {
	c := mustNew(t, Config{{Name: "foo"}}, "--foo", "bar")

	c.GetArgs()["foo"] = "mutated"

	if got := c.GetArg("foo"); got != "bar" {
		t.Errorf("GetArg(foo) = %v after mutating GetArgs result", got)
	}
}

func TestGetArgsFor(t *testing.T) {
	config := Config{
		{Name: "user-id", Alias: "u", Filter: IntFilter},
		{Name: "city"},
		{Name: "verbose", Alias: "v", Filter: FlagFilter, Default: false},
	}
	c := mustNew(t, config, "-u", "7", "--city", "Rome")

	got := c.GetArgsFor("u", "verbose", "unknown")
	want := map[string]interface{}{"user-id": 7, "verbose": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetArgsFor() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetArguments(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		named      map[string]interface{}
		positional []string
	}{
		{"short", []string{"-e"}, map[string]interface{}{"e": nil}, nil},
		{"short_and_long", []string{"-f", "bar", "--foo", "baz"}, map[string]interface{}{"f": "bar", "foo": "baz"}, nil},
		{"positional", []string{"a", "b", "c"}, map[string]interface{}{}, []string{"a", "b", "c"}},
		{"bundle_equals", []string{"-abc=e"}, map[string]interface{}{"a": nil, "b": nil, "c": nil, "=": nil, "e": nil}, nil},
		{"long", []string{"--abc"}, map[string]interface{}{"abc": nil}, nil},
		{"long_equals", []string{"--foo=bar"}, map[string]interface{}{"foo": "bar"}, nil},
		{"long_equals_positional", []string{"--foo=bar", "baz", "foo"}, map[string]interface{}{"foo": "bar"}, []string{"baz", "foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, nil, tt.args...)
			raw := c.GetArguments()

			if raw.Program() != testProgram || c.Program() != testProgram {
				t.Errorf("program = %q, want %q", raw.Program(), testProgram)
			}
			if diff := cmp.Diff(tt.named, snapshot(raw)); diff != "" {
				t.Errorf("named mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.positional, c.Positional()); diff != "" {
				t.Errorf("positional mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsFlagExists(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flag  string
		alias string
		want  bool
	}{
		{"nothing", []string{}, "foo", "bar", false},
		{"other_flag", []string{"--bar"}, "foo", "", false},
		{"positional_is_not_flag", []string{"foo"}, "foo", "", false},
		{"long", []string{"--foo", "bar"}, "foo", "", true},
		{"long_with_alias", []string{"--foo", "bar"}, "foo", "f", true},
		{"alias", []string{"-f"}, "foo", "f", true},
		{"short", []string{"-f", "bar"}, "f", "", true},
		{"bound_value_is_not_flag", []string{"-f", "bar"}, "bar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustNew(t, nil, tt.args...).IsFlagExists(tt.flag, tt.alias); got != tt.want {
				t.Errorf("IsFlagExists(%q, %q) = %v, want %v", tt.flag, tt.alias, got, tt.want)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		code   string
	}{
		{"empty_name", Config{{Name: ""}}, ErrCodeInvalidArgument},
		{"alias_equals_name", Config{{Name: "a", Alias: "a"}}, ErrCodeInvalidArgument},
		{"duplicate_name", Config{{Name: "a"}, {Name: "a"}}, ErrCodeDuplicateArgument},
		{"alias_collides_with_name", Config{{Name: "a"}, {Name: "b", Alias: "a"}}, ErrCodeDuplicateArgument},
		{"alias_collides_with_alias", Config{{Name: "a", Alias: "x"}, {Name: "b", Alias: "x"}}, ErrCodeDuplicateArgument},
		{"nil_transform", Config{{Name: "a", Filter: TransformFilter(nil)}}, ErrCodeInvalidFilter},
		{"unknown_kind", Config{{Name: "a", Filter: Filter{kind: FilterHelp + 1}}}, ErrCodeInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New([]string{testProgram}, tt.config)
			if err == nil {
				t.Fatalf("New() = %v, want error", c)
			}
			ec, ok := err.(errors.ErrorCoder)
			if !ok {
				t.Fatalf("error %T does not carry a code", err)
			}
			if string(ec.ErrorCode()) != tt.code {
				t.Errorf("error code = %s, want %s", ec.ErrorCode(), tt.code)
			}
		})
	}
}

func TestNewCopiesConfig(t *testing.T) {
	config := Config{{Name: "foo", Default: "a"}}
	c := mustNew(t, config)

	config[0].Name = "mutated"

	if c.Config()[0].Name != "foo" {
		t.Error("CliArgs shares its configuration with the caller")
	}
	if got := c.GetArg("foo"); got != "a" {
		t.Errorf("GetArg(foo) = %v, want a", got)
	}
}

func TestTransformRunsOnce(t *testing.T) {
	calls := 0
	count := TransformFilter(func(raw string) interface{} {
		calls++
		return strings.ToUpper(raw)
	})

	c := mustNew(t, Config{{Name: "name", Filter: count}}, "--name", "go")
	for i := 0; i < 3; i++ {
		if got := c.GetArg("name"); got != "GO" {
			t.Fatalf("GetArg(name) = %v, want GO", got)
		}
	}
	_ = c.GetArgs()

	if calls != 1 {
		t.Errorf("transform called %d times, want 1", calls)
	}
}

func TestNewFromLine(t *testing.T) {
	config := Config{
		{Name: "name", Alias: "n"},
		{Name: "verbose", Alias: "v", Filter: FlagFilter},
	}

	c, err := NewFromLine(`app --name "Ada Lovelace" -v 'notes.txt'`, config)
	if err != nil {
		t.Fatalf("NewFromLine() failed: %v", err)
	}

	if got := c.GetArg("name"); got != "Ada Lovelace" {
		t.Errorf("GetArg(name) = %v, want Ada Lovelace", got)
	}
	if got := c.GetArg("v"); got != true {
		t.Errorf("GetArg(v) = %v, want true", got)
	}
	if c.Program() != "app" {
		t.Errorf("Program() = %q, want app", c.Program())
	}
}

func TestNewFromLineUnbalancedQuote(t *testing.T) {
	_, err := NewFromLine(`app --name "unterminated`, nil)
	if err == nil {
		t.Fatal("NewFromLine() accepted an unterminated quote")
	}
	if ec, ok := err.(errors.ErrorCoder); !ok || string(ec.ErrorCode()) != ErrCodeInvalidLine {
		t.Errorf("expected %s, got %v", ErrCodeInvalidLine, err)
	}
}

func TestSessionIsUnique(t *testing.T) {
	a := mustNew(t, nil)
	b := mustNew(t, nil)

	if a.Session() == "" || a.Session() == b.Session() {
		t.Errorf("sessions %q and %q should be distinct and non-empty", a.Session(), b.Session())
	}
}

func TestConcurrentReaders(t *testing.T) {
	c := mustNew(t, Config{
		{Name: "user-id", Filter: IntFilter},
		{Name: "tags", Filter: JSONFilter},
	}, "--user-id=9", "--tags", `["a","b"]`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if c.GetArg("user-id") != 9 {
					t.Error("unexpected user-id")
					return
				}
				_ = c.GetArgs()
				_ = c.GetArguments().Names()
			}
		}()
	}
	wg.Wait()
}
