// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
//
// The chain resolver, the CLI and the [MCP] server all log through this
// interface, so the same code can emit human-readable lines or JSON records.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger writing to stderr with timestamps
// disabled, leaving stdout for command results.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stderr, "", 0)}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one JSON object per line.
//
// It is used by the [MCP] server, where stdout carries the protocol and logs
// must either be suppressed or sent elsewhere, and by the library when no
// logger is configured.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type JSONLogger struct {
	out       *output
	component string
	silent    bool
	now       func() time.Time
}

type output struct {
	mu     sync.Mutex
	writer io.Writer
	err    error
}

type entry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

// NewJSONLogger creates a JSON logger writing to writer. A nil writer discards
// output. When silent is true nothing is written at all.
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		out:    &output{writer: writer},
		silent: silent,
		now:    time.Now,
	}
}

// Discard returns a logger that drops every message.
func Discard() Logger { return NewJSONLogger(nil, true) }

// WithComponent returns a logger sharing the destination of l that tags every
// record with component.
func (l *JSONLogger) WithComponent(component string) *JSONLogger {
	return &JSONLogger{out: l.out, component: component, silent: l.silent, now: l.now}
}

// Printf formats and logs a structured message.
func (l *JSONLogger) Printf(format string, v ...any) {
	if l.silent {
		return
	}
	l.write(fmt.Sprintf(format, v...))
}

// Println logs a structured message.
func (l *JSONLogger) Println(v ...any) {
	if l.silent {
		return
	}
	l.write(fmt.Sprint(v...))
}

// SetOutput sets the output destination. It affects every logger derived with
// WithComponent.
func (l *JSONLogger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	l.out.writer = w
}

func (l *JSONLogger) write(msg string) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	// Encode appends the newline.
	if err := json.NewEncoder(buf).Encode(entry{
		Time:      l.now().UTC().Format(time.RFC3339),
		Level:     "info",
		Component: l.component,
		Message:   msg,
	}); err != nil {
		return
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if _, err := buf.WriteTo(l.out.writer); err != nil && l.out.err == nil {
		l.out.err = err
	}
}

// Err returns the first error encountered while writing a record, shared by
// every logger derived with WithComponent. Records that fail to write are dropped.
func (l *JSONLogger) Err() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.err
}
