// Utility functions for the cliargs CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agilira/cliargs"
	"github.com/agilira/go-errors"
)

// loadSchema loads the schema at path, rejecting an empty path up front.
func (m *Manager) loadSchema(path string) (cliargs.Config, error) {
	if path == "" {
		return nil, errors.New(cliargs.ErrCodeInvalidArgument, "schema path is required")
	}
	return cliargs.LoadSchema(path, nil)
}

// openAudit creates an audit logger flushed on every event, since the CLI
// exits right after resolving.
func openAudit(path string) (*cliargs.AuditLogger, error) {
	config := cliargs.DefaultAuditConfig()
	config.OutputFile = path
	config.BufferSize = 0
	config.FlushInterval = 0
	return cliargs.NewAuditLogger(config)
}

// openAuditStore opens an existing audit store for inspection.
func (m *Manager) openAuditStore(path string) (*cliargs.AuditLogger, error) {
	if path == "" {
		return nil, errors.New(cliargs.ErrCodeInvalidArgument, "audit file path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, cliargs.ErrCodeIOError, "audit file not found").
			WithContext("path", path)
	}
	return openAudit(path)
}

// helpText returns the rendered help of whichever help argument was given.
func helpText(args *cliargs.CliArgs) (string, bool) {
	for _, spec := range args.Config() {
		if spec.Filter.Kind() != cliargs.FilterHelp {
			continue
		}
		if text, ok := args.GetArg(spec.Name).(string); ok && args.IsFlagExists(spec.Name, spec.Alias) {
			return text, true
		}
	}
	return "", false
}

// printJSON writes v as indented JSON followed by a newline.
func (m *Manager) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, cliargs.ErrCodeIOError, "failed to encode output")
	}
	_, err = fmt.Fprintln(m.out, string(data))
	return err
}
