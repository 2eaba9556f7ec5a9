// schema.go: Argument schemas loaded from YAML, TOML or JSON
//
// A schema is a document with an "arguments" list:
//
//	arguments:
//	  - name: help
//	    alias: h
//	    filter: help
//	  - name: level
//	    filter: [debug, info, warn]
//	    default: info
//	    help: Log level
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// SchemaFormat identifies a schema document encoding.
type SchemaFormat int

const (
	SchemaJSON SchemaFormat = iota
	SchemaYAML
	SchemaTOML
	SchemaUnknown
)

func (f SchemaFormat) String() string {
	switch f {
	case SchemaJSON:
		return "json"
	case SchemaYAML:
		return "yaml"
	case SchemaTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// DetectSchemaFormat guesses the format from the file extension.
func DetectSchemaFormat(path string) SchemaFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SchemaJSON
	case ".yaml", ".yml":
		return SchemaYAML
	case ".toml":
		return SchemaTOML
	default:
		return SchemaUnknown
	}
}

type schemaDocument struct {
	Arguments []schemaArgument `yaml:"arguments" toml:"arguments" json:"arguments"`
}

type schemaArgument struct {
	Name    string      `yaml:"name" toml:"name" json:"name"`
	Filter  interface{} `yaml:"filter" toml:"filter" json:"filter"`
	Alias   string      `yaml:"alias" toml:"alias" json:"alias"`
	Default interface{} `yaml:"default" toml:"default" json:"default"`
	Help    string      `yaml:"help" toml:"help" json:"help"`
}

// LoadSchema reads and parses the schema at path. Named filters that are
// not built in are looked up in transforms.
func LoadSchema(path string, transforms map[string]TransformFunc) (Config, error) {
	format := DetectSchemaFormat(path)
	if format == SchemaUnknown {
		return nil, errors.New(ErrCodeUnsupportedFormat, "cannot detect schema format").
			WithContext("path", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read schema").
			WithContext("path", path)
	}

	return ParseSchema(data, format, transforms)
}

// ParseSchema decodes a schema document and returns a validated Config.
func ParseSchema(data []byte, format SchemaFormat, transforms map[string]TransformFunc) (Config, error) {
	var doc schemaDocument

	switch format {
	case SchemaJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidSchema, "failed to decode JSON schema")
		}
	case SchemaYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidSchema, "failed to decode YAML schema")
		}
	case SchemaTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidSchema, "failed to decode TOML schema")
		}
	default:
		return nil, errors.New(ErrCodeUnsupportedFormat, "unsupported schema format").
			WithContext("format", format.String())
	}

	config := make(Config, 0, len(doc.Arguments))
	for _, arg := range doc.Arguments {
		filter, err := ParseFilter(normalizeScalar(arg.Filter), transforms)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidFilter, "invalid filter in schema").
				WithContext("argument", arg.Name)
		}
		config = append(config, ArgumentSpec{
			Name:    arg.Name,
			Filter:  filter,
			Alias:   arg.Alias,
			Default: normalizeScalar(arg.Default),
			Help:    arg.Help,
		})
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalizeScalar maps decoder-specific numbers onto int and float64 so a
// schema yields the same values whatever its format.
func normalizeScalar(v interface{}) interface{} {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return normalizeScalar(i)
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
		return n
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, e := range n {
			out[i] = normalizeScalar(e)
		}
		return out
	}
	return v
}
