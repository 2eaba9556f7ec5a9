// Package cli provides the command-line interface for cliargs.
//
// The tool lets schema authors see what a command line turns into without
// writing a program:
//
//	cliargs tokenize --line "app --user-id=5 -vf input.txt"
//	cliargs resolve schema.yaml --line "app --level debug"
//	cliargs describe schema.yaml --arg level
//	cliargs check schema.toml
//	cliargs audit stats audit.db
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"io"
	"os"

	"github.com/agilira/cliargs"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/fatih/color"
)

// Manager wires the cliargs commands into an Orpheus application.
type Manager struct {
	app         *orpheus.App
	out         io.Writer
	auditLogger *cliargs.AuditLogger

	heading *color.Color
	name    *color.Color
	warn    *color.Color
}

// NewManager creates the CLI with all commands registered.
func NewManager() *Manager {
	app := orpheus.New("cliargs").
		SetDescription("Inspect command-line tokenization and argument schemas").
		SetVersion("1.0.0")

	manager := &Manager{
		app:     app,
		out:     os.Stdout,
		heading: color.New(color.FgCyan, color.Bold),
		name:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
	}

	manager.setupCommands()
	return manager
}

// WithAudit sends the events of every resolved command line to auditLogger.
// A --audit flag on resolve takes precedence.
func (m *Manager) WithAudit(auditLogger *cliargs.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	return m
}

// SetOutput redirects command output to w. Colors are disabled unless w
// is stdout.
func (m *Manager) SetOutput(w io.Writer) *Manager {
	m.out = w
	if w != os.Stdout {
		m.heading.DisableColor()
		m.name.DisableColor()
		m.warn.DisableColor()
	}
	return m
}

// Run executes the CLI with args, excluding the program name.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

func (m *Manager) setupCommands() {
	// tokenize --line "<argv>"
	tokenizeCmd := orpheus.NewCommand("tokenize", "Show how a command line is tokenized").
		AddFlag("line", "l", "", "Command line to tokenize, program name first").
		SetHandler(m.handleTokenize)
	m.app.AddCommand(tokenizeCmd)

	// resolve <schema> --line "<argv>" [--audit file]
	resolveCmd := orpheus.NewCommand("resolve", "Resolve a command line against a schema").
		AddFlag("line", "l", "", "Command line to resolve, program name first").
		AddFlag("audit", "a", "", "Audit output (.db or .jsonl)").
		SetHandler(m.handleResolve)
	m.app.AddCommand(resolveCmd)

	// describe <schema> [--arg name]
	describeCmd := orpheus.NewCommand("describe", "Render the help text of a schema").
		AddFlag("arg", "a", "", "Render a single argument").
		SetHandler(m.handleDescribe)
	m.app.AddCommand(describeCmd)

	// check <schema>
	checkCmd := orpheus.NewCommand("check", "Validate a schema and list its arguments")
	checkCmd.SetHandler(m.handleCheck)
	checkCmd.AddBoolFlag("quiet", "q", false, "Only report errors")
	m.app.AddCommand(checkCmd)

	// audit stats|maintain <file>
	auditCmd := orpheus.NewCommand("audit", "Audit trail inspection")
	auditCmd.Subcommand("stats", "Summarize an audit store (.db or .jsonl)", m.handleAuditStats)
	auditCmd.Subcommand("maintain", "Prune a SQLite store or rotate a JSONL file", m.handleAuditMaintain)
	m.app.AddCommand(auditCmd)
}
