// audit.go: Audit trail for cliargs
//
// Records what happened to a command line: how it was tokenized, which
// values were rejected by their filters, when help was rendered and which
// configurations were refused. Events of one CliArgs instance share a
// session id.
//
// Features:
// - Buffered writes with background flushing
// - SHA-256 checksum per event for tamper detection
// - Cached timestamps (go-timecache)
// - SQLite or rotating JSONL storage
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// Audit event names
const (
	EventArgumentsTokenized = "arguments_tokenized"
	EventValueRejected      = "value_rejected"
	EventHelpRendered       = "help_rendered"
	EventConfigRejected     = "config_rejected"
)

// AuditLevel represents the severity of audit events
type AuditLevel int

const (
	AuditInfo AuditLevel = iota
	AuditWarn
	AuditCritical
)

func (al AuditLevel) String() string {
	switch al {
	case AuditInfo:
		return "INFO"
	case AuditWarn:
		return "WARN"
	case AuditCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// AuditEvent represents a single auditable event
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	Level       AuditLevel             `json:"level"`
	Event       string                 `json:"event"`
	Component   string                 `json:"component"`
	SessionID   string                 `json:"session_id"`
	Argument    string                 `json:"argument,omitempty"`
	RawValue    string                 `json:"raw_value,omitempty"`
	Value       interface{}            `json:"value,omitempty"`
	ProcessID   int                    `json:"process_id"`
	ProcessName string                 `json:"process_name"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Checksum    string                 `json:"checksum"`
}

// AuditConfig configures the audit system.
//
// OutputFile selects the backend: ".jsonl" writes rotating JSON lines,
// ".db" or an empty path uses SQLite (the empty path maps to a shared
// database under the temp directory).
type AuditConfig struct {
	Enabled       bool          `json:"enabled"`
	OutputFile    string        `json:"output_file"`
	MinLevel      AuditLevel    `json:"min_level"`
	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`

	// JSONL rotation, see lumberjack.Logger
	MaxSizeMB  int  `json:"max_size_mb"`
	MaxBackups int  `json:"max_backups"`
	MaxAgeDays int  `json:"max_age_days"`
	Compress   bool `json:"compress"`
}

// DefaultAuditConfig returns the default audit configuration: SQLite
// storage in the shared database, 1000-event buffer flushed every 5s.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       true,
		MinLevel:      AuditInfo,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
		MaxSizeMB:     10,
		MaxBackups:    3,
	}
}

// validate rejects configurations the logger cannot honor.
func (c AuditConfig) validate() error {
	if c.BufferSize < 0 {
		return errors.New(ErrCodeInvalidAuditConfig, "buffer size cannot be negative").
			WithContext("buffer_size", fmt.Sprint(c.BufferSize))
	}
	if c.FlushInterval < 0 {
		return errors.New(ErrCodeInvalidAuditConfig, "flush interval cannot be negative").
			WithContext("flush_interval", c.FlushInterval.String())
	}
	if c.MinLevel < AuditInfo || c.MinLevel > AuditCritical {
		return errors.New(ErrCodeInvalidAuditConfig, "unknown minimum level").
			WithContext("min_level", fmt.Sprint(int(c.MinLevel)))
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New(ErrCodeInvalidAuditConfig, "rotation limits cannot be negative")
	}
	return nil
}

// AuditLogger buffers audit events and hands them to a storage backend.
// A nil *AuditLogger is valid and discards everything, so callers never
// need to check whether auditing is enabled.
type AuditLogger struct {
	config      AuditConfig
	backend     auditBackend
	buffer      []AuditEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	closeOnce   sync.Once
	closed      bool
	processID   int
	processName string
}

// NewAuditLogger creates an audit logger and its backend.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	backend, err := createAuditBackend(config)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to initialize audit backend").
			WithContext("output_file", config.OutputFile)
	}

	logger := &AuditLogger{
		config:      config,
		backend:     backend,
		buffer:      make([]AuditEvent, 0, config.BufferSize),
		stopCh:      make(chan struct{}),
		processID:   os.Getpid(),
		processName: "cliargs",
	}

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}

	return logger, nil
}

// Log records an audit event.
func (al *AuditLogger) Log(level AuditLevel, event, sessionID, argument, rawValue string, value interface{}, context map[string]interface{}) {
	if al == nil || al.backend == nil || !al.config.Enabled || level < al.config.MinLevel {
		return
	}

	auditEvent := AuditEvent{
		Timestamp:   timecache.CachedTime(),
		Level:       level,
		Event:       event,
		Component:   "cliargs",
		SessionID:   sessionID,
		Argument:    argument,
		RawValue:    rawValue,
		Value:       value,
		ProcessID:   al.processID,
		ProcessName: al.processName,
		Context:     context,
	}
	auditEvent.Checksum = checksum(auditEvent)

	al.bufferMu.Lock()
	if al.closed {
		al.bufferMu.Unlock()
		return
	}
	al.buffer = append(al.buffer, auditEvent)
	if len(al.buffer) >= al.config.BufferSize {
		_ = al.flushBufferUnsafe() // retried on the next flush
	}
	al.bufferMu.Unlock()
}

// LogTokenized records a tokenized command line.
func (al *AuditLogger) LogTokenized(sessionID string, named, positional int) {
	al.Log(AuditInfo, EventArgumentsTokenized, sessionID, "", "", nil, map[string]interface{}{
		"named":      named,
		"positional": positional,
	})
}

// LogValueRejected records a raw value that failed its filter; the
// argument fell back to its default.
func (al *AuditLogger) LogValueRejected(sessionID, argument, filter, rawValue string) {
	al.Log(AuditWarn, EventValueRejected, sessionID, argument, rawValue, nil, map[string]interface{}{
		"filter": filter,
	})
}

// LogHelpRendered records that help was produced for argument (or for
// the whole configuration when argument is the help flag itself).
func (al *AuditLogger) LogHelpRendered(sessionID, argument string) {
	al.Log(AuditInfo, EventHelpRendered, sessionID, argument, "", nil, nil)
}

// LogConfigRejected records a configuration refused at construction.
func (al *AuditLogger) LogConfigRejected(sessionID string, err error) {
	context := map[string]interface{}{"error": err.Error()}
	if ec, ok := err.(errors.ErrorCoder); ok {
		context["code"] = string(ec.ErrorCode())
	}
	al.Log(AuditCritical, EventConfigRejected, sessionID, "", "", nil, context)
}

// Stats returns backend statistics.
func (al *AuditLogger) Stats() (*AuditDatabaseStats, error) {
	if al == nil {
		return nil, errors.New(ErrCodeInvalidAuditConfig, "audit logger is not configured")
	}
	if err := al.Flush(); err != nil {
		return nil, err
	}
	return al.backend.GetStats()
}

// Maintenance flushes pending events, then lets the backend prune or rotate
// its storage: SQLite drops events past retention, JSONL rotates the file.
func (al *AuditLogger) Maintenance() error {
	if al == nil {
		return nil
	}
	if err := al.Flush(); err != nil {
		return err
	}
	if err := al.backend.Maintenance(); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "audit maintenance failed")
	}
	return nil
}

// Flush immediately writes all buffered events
func (al *AuditLogger) Flush() error {
	if al == nil {
		return nil
	}
	al.bufferMu.Lock()
	defer al.bufferMu.Unlock()
	return al.flushBufferUnsafe()
}

// Close flushes pending events and releases the backend. Events logged
// after Close are dropped. Safe to call more than once.
func (al *AuditLogger) Close() error {
	if al == nil {
		return nil
	}

	var err error
	al.closeOnce.Do(func() {
		close(al.stopCh)
		if al.flushTicker != nil {
			al.flushTicker.Stop()
		}

		al.bufferMu.Lock()
		err = al.flushBufferUnsafe()
		al.closed = true
		al.buffer = nil
		al.bufferMu.Unlock()

		if al.backend != nil {
			if closeErr := al.backend.Close(); closeErr != nil && err == nil {
				err = errors.Wrap(closeErr, ErrCodeIOError, "failed to close audit backend")
			}
		}
	})
	return err
}

func (al *AuditLogger) flushLoop() {
	for {
		select {
		case <-al.flushTicker.C:
			_ = al.Flush()
		case <-al.stopCh:
			return
		}
	}
}

// flushBufferUnsafe writes the buffer to the backend (caller holds bufferMu).
// The buffer is kept on failure.
func (al *AuditLogger) flushBufferUnsafe() error {
	if len(al.buffer) == 0 {
		return nil
	}

	if err := al.backend.Write(al.buffer); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write audit events")
	}

	al.buffer = al.buffer[:0]
	return nil
}

// checksum creates a tamper-detection checksum using SHA-256
func checksum(event AuditEvent) string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%v",
		event.Timestamp.Format(time.RFC3339Nano),
		event.Event, event.SessionID, event.Argument, event.RawValue, event.Value)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
