// Command handlers for the cliargs CLI
//
// Handlers only extract arguments from the Orpheus context; the work is
// done by the run* methods so it can be driven without a parsed command
// line.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/agilira/cliargs"
	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
)

func (m *Manager) handleTokenize(ctx *orpheus.Context) error {
	return m.runTokenize(ctx.GetFlagString("line"))
}

func (m *Manager) handleResolve(ctx *orpheus.Context) error {
	return m.runResolve(ctx.GetArg(0), ctx.GetFlagString("line"), ctx.GetFlagString("audit"))
}

func (m *Manager) handleDescribe(ctx *orpheus.Context) error {
	return m.runDescribe(ctx.GetArg(0), ctx.GetFlagString("arg"))
}

func (m *Manager) handleCheck(ctx *orpheus.Context) error {
	return m.runCheck(ctx.GetArg(0), ctx.GetFlagBool("quiet"))
}

func (m *Manager) handleAuditStats(ctx *orpheus.Context) error {
	return m.runAuditStats(ctx.GetArg(0))
}

func (m *Manager) handleAuditMaintain(ctx *orpheus.Context) error {
	return m.runAuditMaintain(ctx.GetArg(0))
}

// runTokenize prints the tokenized form of line as JSON.
func (m *Manager) runTokenize(line string) error {
	argv, err := cliargs.SplitLine(line)
	if err != nil {
		return err
	}
	return m.printJSON(cliargs.Tokenize(argv))
}

// runResolve prints the resolved values of line, or the help text when a
// help argument was given.
func (m *Manager) runResolve(schemaPath, line, auditPath string) error {
	config, err := m.loadSchema(schemaPath)
	if err != nil {
		return err
	}

	auditLogger := m.auditLogger
	if auditPath != "" {
		auditLogger, err = openAudit(auditPath)
		if err != nil {
			return err
		}
		defer func() { _ = auditLogger.Close() }()
	}

	args, err := cliargs.NewFromLine(line, config, cliargs.WithAudit(auditLogger))
	if err != nil {
		return err
	}

	if args.HelpRequested() {
		if text, ok := helpText(args); ok {
			_, err := fmt.Fprint(m.out, text)
			return err
		}
	}

	return m.printJSON(args.GetArgs())
}

// runDescribe prints the help text of a schema, or of one argument.
func (m *Manager) runDescribe(schemaPath, argName string) error {
	config, err := m.loadSchema(schemaPath)
	if err != nil {
		return err
	}

	if argName == "" {
		_, err = fmt.Fprint(m.out, config.Help())
		return err
	}

	spec, ok := config.Lookup(argName)
	if !ok {
		return errors.New(cliargs.ErrCodeInvalidArgument, fmt.Sprintf("argument '%s' is not declared", argName)).
			WithContext("schema", schemaPath)
	}
	_, err = fmt.Fprint(m.out, cliargs.Config{spec}.Help())
	return err
}

// runCheck validates a schema and lists its arguments.
func (m *Manager) runCheck(schemaPath string, quiet bool) error {
	config, err := m.loadSchema(schemaPath)
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}

	m.heading.Fprintf(m.out, "%s: %d arguments\n", schemaPath, len(config))
	for _, spec := range config {
		m.name.Fprintf(m.out, "  %s", spec.Name)
		if spec.Alias != "" {
			fmt.Fprintf(m.out, " (%s)", spec.Alias)
		}
		fmt.Fprintf(m.out, "  %s", spec.Filter)
		if spec.Default != nil {
			fmt.Fprintf(m.out, "  default=%v", spec.Default)
		}
		fmt.Fprintln(m.out)
		if spec.Help == "" {
			m.warn.Fprintln(m.out, "    no help text")
		}
	}
	return nil
}

// runAuditStats prints the statistics of the audit store at path as JSON.
func (m *Manager) runAuditStats(path string) error {
	auditLogger, err := m.openAuditStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = auditLogger.Close() }()

	stats, err := auditLogger.Stats()
	if err != nil {
		return err
	}
	return m.printJSON(stats)
}

// runAuditMaintain runs backend maintenance on the audit store at path.
func (m *Manager) runAuditMaintain(path string) error {
	auditLogger, err := m.openAuditStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = auditLogger.Close() }()

	if err := auditLogger.Maintenance(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(m.out, "%s: maintenance complete\n", path)
	return err
}
