// cliargs: Command-line argument tokenizer and value filters
//
// Philosophy:
// - The argument vector is injected, never read from deep call sites
// - Everything is resolved once at construction; queries are plain reads
// - Bad input degrades to defaults, only bad configuration is an error
// - Minimal dependencies (AGILira ecosystem: go-errors, go-timecache)
//
// Example Usage:
//   args, err := cliargs.New(os.Args, cliargs.Config{
//       {Name: "help", Alias: "h", Filter: cliargs.HelpFilter},
//       {Name: "user-id", Filter: cliargs.IntFilter, Default: 0},
//   })
//   if err != nil {
//       log.Fatal(err)
//   }
//   if args.HelpRequested() {
//       fmt.Print(args.GetArg("help"))
//       return
//   }
//   userID := args.GetArg("user-id").(int)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"os"

	"github.com/agilira/go-errors"
	"github.com/google/shlex"
	"github.com/google/uuid"
)

// Error codes for cliargs operations
const (
	ErrCodeInvalidFilter      = "CLIARGS_INVALID_FILTER"
	ErrCodeInvalidArgument    = "CLIARGS_INVALID_ARGUMENT"
	ErrCodeDuplicateArgument  = "CLIARGS_DUPLICATE_ARGUMENT"
	ErrCodeInvalidSchema      = "CLIARGS_INVALID_SCHEMA"
	ErrCodeUnsupportedFormat  = "CLIARGS_UNSUPPORTED_FORMAT"
	ErrCodeInvalidLine        = "CLIARGS_INVALID_LINE"
	ErrCodeBindFailed         = "CLIARGS_BIND_FAILED"
	ErrCodeInvalidAuditConfig = "CLIARGS_INVALID_AUDIT_CONFIG"
	ErrCodeIOError            = "CLIARGS_IO_ERROR"
)

// Options configures optional CliArgs behavior.
type Options struct {
	// Audit receives tokenization, rejection and help events.
	// Nil disables auditing.
	Audit *AuditLogger
}

// WithAudit returns options that send events to logger.
func WithAudit(logger *AuditLogger) *Options {
	return &Options{Audit: logger}
}

// getOptions returns the first non-nil options, or empty options.
func getOptions(opts ...*Options) *Options {
	for _, o := range opts {
		if o != nil {
			return o
		}
	}
	return &Options{}
}

// CliArgs holds the tokenized command line and every configured argument's
// resolved value. It is immutable after construction and safe for
// concurrent readers.
type CliArgs struct {
	config  Config
	index   map[string]int
	raw     *RawArguments
	values  map[string]interface{}
	help    bool
	session string
}

// New tokenizes argv (program path at index 0) and resolves every argument
// declared in config. The only possible error is a configuration contract
// violation; malformed command-line input never fails.
func New(argv []string, config Config, opts ...*Options) (*CliArgs, error) {
	options := getOptions(opts...)
	session := uuid.NewString()

	if err := config.Validate(); err != nil {
		options.Audit.LogConfigRejected(session, err)
		return nil, err
	}

	c := &CliArgs{
		config:  append(Config(nil), config...),
		raw:     Tokenize(argv),
		session: session,
	}
	c.index = c.config.index()
	options.Audit.LogTokenized(session, c.raw.Len(), len(c.raw.positional))

	r := resolver{args: c, audit: options.Audit}
	c.values = make(map[string]interface{}, len(c.config))
	for _, spec := range c.config {
		c.values[spec.Name] = r.resolve(spec)
	}

	return c, nil
}

// NewFromOS resolves config against os.Args. Call it from main only.
func NewFromOS(config Config, opts ...*Options) (*CliArgs, error) {
	return New(os.Args, config, opts...)
}

// NewFromLine splits line with shell quoting rules and resolves it like New.
// The first word is the program path.
func NewFromLine(line string, config Config, opts ...*Options) (*CliArgs, error) {
	argv, err := SplitLine(line)
	if err != nil {
		return nil, err
	}
	return New(argv, config, opts...)
}

// SplitLine splits a command line into argv using shell quoting rules.
func SplitLine(line string) ([]string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidLine, "failed to split command line").
			WithContext("line", line)
	}
	return argv, nil
}

// GetArg returns the resolved value of the argument declared as name (Name
// or Alias). Undeclared names yield nil.
func (c *CliArgs) GetArg(name string) interface{} {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return c.values[c.config[i].Name]
}

// GetArgs returns every declared argument keyed by its primary name.
// Tokens that were not declared are never included.
func (c *CliArgs) GetArgs() map[string]interface{} {
	result := make(map[string]interface{}, len(c.values))
	for name, value := range c.values {
		result[name] = value
	}
	return result
}

// GetArgsFor resolves a subset of arguments, each given by Name or Alias.
// Results are keyed by primary name; undeclared names are skipped.
func (c *CliArgs) GetArgsFor(names ...string) map[string]interface{} {
	result := make(map[string]interface{}, len(names))
	for _, name := range names {
		if i, ok := c.index[name]; ok {
			primary := c.config[i].Name
			result[primary] = c.values[primary]
		}
	}
	return result
}

// GetArguments returns the tokenized command line without any filtering.
func (c *CliArgs) GetArguments() *RawArguments {
	return c.raw
}

// IsFlagExists reports whether name or alias appeared on the command line,
// regardless of configuration. An empty alias is ignored.
func (c *CliArgs) IsFlagExists(name, alias string) bool {
	if c.raw.Has(name) {
		return true
	}
	return alias != "" && c.raw.Has(alias)
}

// Program returns argv[0].
func (c *CliArgs) Program() string { return c.raw.Program() }

// Positional returns the tokens not bound to any flag.
func (c *CliArgs) Positional() []string { return c.raw.Positional() }

// HelpRequested reports whether any help-filter argument appeared.
func (c *CliArgs) HelpRequested() bool { return c.help }

// Help renders help for every declared argument, whether or not it was
// requested.
func (c *CliArgs) Help() string {
	return c.config.Help()
}

// HelpFor renders help for a single argument given by Name or Alias.
func (c *CliArgs) HelpFor(name string) (string, bool) {
	spec, ok := c.config.Lookup(name)
	if !ok {
		return "", false
	}
	return renderHelp([]ArgumentSpec{spec}), true
}

// Config returns a copy of the configuration.
func (c *CliArgs) Config() Config {
	return append(Config(nil), c.config...)
}

// Session returns the identifier used for this instance's audit events.
func (c *CliArgs) Session() string { return c.session }
