// arguments.go: Argument declarations for cliargs
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"github.com/agilira/go-errors"
)

// ArgumentSpec declares one logical argument. Name and Alias are
// interchangeable on the command line and resolve to the same value; Name is
// the key used in resolved output.
type ArgumentSpec struct {
	Name    string
	Filter  Filter
	Alias   string
	Default interface{}
	Help    string
}

// Config is the ordered set of declared arguments. Order drives help output.
//
// Example:
//
//	config := cliargs.Config{
//		{Name: "help", Alias: "h", Filter: cliargs.HelpFilter},
//		{Name: "user-id", Filter: cliargs.IntFilter, Default: 0, Help: "User id"},
//		{Name: "sex", Filter: cliargs.EnumFilter("m", "f")},
//	}
type Config []ArgumentSpec

// Lookup finds the argument declared under name, either as Name or Alias.
func (c Config) Lookup(name string) (ArgumentSpec, bool) {
	if name == "" {
		return ArgumentSpec{}, false
	}
	for _, spec := range c {
		if spec.Name == name || spec.Alias == name {
			return spec, true
		}
	}
	return ArgumentSpec{}, false
}

// Names returns the primary names in declaration order.
func (c Config) Names() []string {
	names := make([]string, len(c))
	for i, spec := range c {
		names[i] = spec.Name
	}
	return names
}

// Help renders the help text of every declared argument.
func (c Config) Help() string {
	return renderHelp(c)
}

// Validate checks the configuration contract: non-empty unique names,
// aliases that do not collide with any other name or alias, and usable
// filters.
func (c Config) Validate() error {
	seen := make(map[string]string, len(c)*2)

	for _, spec := range c {
		if spec.Name == "" {
			return errors.New(ErrCodeInvalidArgument, "argument name cannot be empty")
		}
		if spec.Alias == spec.Name {
			return errors.New(ErrCodeInvalidArgument, "argument alias must differ from its name").
				WithContext("argument", spec.Name)
		}

		for _, key := range []string{spec.Name, spec.Alias} {
			if key == "" {
				continue
			}
			if owner, exists := seen[key]; exists {
				return errors.New(ErrCodeDuplicateArgument, "argument declared twice").
					WithContext("argument", key).
					WithContext("declared_by", owner)
			}
			seen[key] = spec.Name
		}

		if err := spec.Filter.validate(); err != nil {
			return errors.Wrap(err, ErrCodeInvalidFilter, "invalid filter").
				WithContext("argument", spec.Name)
		}
	}

	return nil
}

// index maps every name and alias to its position in c. Call after Validate.
func (c Config) index() map[string]int {
	idx := make(map[string]int, len(c)*2)
	for i, spec := range c {
		idx[spec.Name] = i
		if spec.Alias != "" {
			idx[spec.Alias] = i
		}
	}
	return idx
}
