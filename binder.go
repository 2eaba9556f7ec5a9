// binder.go: Typed binding of resolved arguments
//
// Binder copies resolved values into caller variables in one pass:
//
//	var userID int
//	var level string
//	err := args.Bind().
//		Int(&userID, "user-id").
//		String(&level, "level").
//		Apply()
//
// A nil resolved value leaves the target untouched, so variables can carry
// their own defaults.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"fmt"
	"strconv"
	"time"
	"unsafe"

	"github.com/agilira/go-errors"
)

type bindKind uint8

const (
	bindString bindKind = iota
	bindInt
	bindInt64
	bindBool
	bindFloat64
	bindDuration
	bindValue
)

func (k bindKind) String() string {
	switch k {
	case bindString:
		return "string"
	case bindInt:
		return "int"
	case bindInt64:
		return "int64"
	case bindBool:
		return "bool"
	case bindFloat64:
		return "float64"
	case bindDuration:
		return "duration"
	case bindValue:
		return "value"
	default:
		return "unknown"
	}
}

// binding is one pending assignment. target always points to a variable
// of the Go type named by kind.
type binding struct {
	target unsafe.Pointer
	name   string
	kind   bindKind
}

// Binder collects bindings and applies them with Apply.
type Binder struct {
	args     *CliArgs
	bindings []binding
}

// Bind starts a binding chain over the resolved values of c.
func (c *CliArgs) Bind() *Binder {
	return &Binder{
		args:     c,
		bindings: make([]binding, 0, len(c.config)),
	}
}

func (b *Binder) add(target unsafe.Pointer, name string, kind bindKind) *Binder {
	b.bindings = append(b.bindings, binding{target: target, name: name, kind: kind})
	return b
}

// String binds a string argument. Non-string values are formatted with %v.
func (b *Binder) String(target *string, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindString) // #nosec G103 -- kind matches *string
}

// Int binds an int argument.
func (b *Binder) Int(target *int, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindInt) // #nosec G103 -- kind matches *int
}

// Int64 binds an int64 argument.
func (b *Binder) Int64(target *int64, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindInt64) // #nosec G103 -- kind matches *int64
}

// Bool binds a bool argument, typically a FlagFilter or BoolFilter.
func (b *Binder) Bool(target *bool, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindBool) // #nosec G103 -- kind matches *bool
}

// Float64 binds a float64 argument.
func (b *Binder) Float64(target *float64, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindFloat64) // #nosec G103 -- kind matches *float64
}

// Duration binds a duration given as text ("1m30s") or as nanoseconds.
func (b *Binder) Duration(target *time.Duration, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindDuration) // #nosec G103 -- kind matches *time.Duration
}

// Value binds the resolved value as is, for JSON and transform results.
func (b *Binder) Value(target *interface{}, name string) *Binder {
	return b.add(unsafe.Pointer(target), name, bindValue) // #nosec G103 -- kind matches *interface{}
}

// Apply assigns every binding. It stops at the first argument that is not
// declared or whose value cannot be converted; targets bound before it keep
// their new values.
func (b *Binder) Apply() error {
	for _, bd := range b.bindings {
		if _, declared := b.args.index[bd.name]; !declared {
			return errors.New(ErrCodeInvalidArgument, "cannot bind undeclared argument").
				WithContext("argument", bd.name)
		}

		value := b.args.GetArg(bd.name)
		if value == nil {
			continue
		}

		if err := assign(bd, value); err != nil {
			return errors.Wrap(err, ErrCodeBindFailed, "failed to bind argument").
				WithContext("argument", bd.name).
				WithContext("target", bd.kind.String())
		}
	}
	return nil
}

func assign(bd binding, value interface{}) error {
	switch bd.kind {
	case bindString:
		*(*string)(bd.target) = toString(value)
	case bindInt:
		v, err := toInt64(value)
		if err != nil {
			return err
		}
		*(*int)(bd.target) = int(v)
	case bindInt64:
		v, err := toInt64(value)
		if err != nil {
			return err
		}
		*(*int64)(bd.target) = v
	case bindBool:
		v, err := toBool(value)
		if err != nil {
			return err
		}
		*(*bool)(bd.target) = v
	case bindFloat64:
		v, err := toFloat64(value)
		if err != nil {
			return err
		}
		*(*float64)(bd.target) = v
	case bindDuration:
		v, err := toDuration(value)
		if err != nil {
			return err
		}
		*(*time.Duration)(bd.target) = v
	case bindValue:
		*(*interface{})(bd.target) = value
	default:
		return fmt.Errorf("unsupported binding kind %d", bd.kind)
	}
	return nil
}

func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to an integer", value)
}

func toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if b, ok := parseBoolWord(v); ok {
			return b, nil
		}
		return false, fmt.Errorf("%q is not a boolean word", v)
	case int:
		return v != 0, nil
	}
	return false, fmt.Errorf("cannot convert %T to bool", value)
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to float64", value)
}

func toDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		return time.ParseDuration(v)
	case int:
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	}
	return 0, fmt.Errorf("cannot convert %T to time.Duration", value)
}
