// Package sandbox runs operator-supplied item scripts in an embedded Go
// interpreter. Scripts receive a snapshot of the item plus browser-like
// window, document, and console surfaces, and run with a restricted
// import set.
package sandbox

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/up4down/up4down-server/internal/domain"
	apperrors "github.com/up4down/up4down-server/internal/errors"
)

// scriptImportPath is the import path scripts use to reach the host surfaces.
const scriptImportPath = "up4down/script"

// Item is the read-only snapshot of a catalog item passed to scripts.
type Item struct {
	ID            string
	Title         string
	Description   string
	DownloadURL   string
	FileType      string
	FileSize      string
	Version       string
	DownloadCount int64
}

// LogEntry is a single console line captured during a script run.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Console captures script log output.
type Console struct {
	entries []LogEntry
}

// Log records an info-level line.
func (c *Console) Log(args ...any) { c.append("log", args...) }

// Warn records a warning line.
func (c *Console) Warn(args ...any) { c.append("warn", args...) }

// Error records an error line.
func (c *Console) Error(args ...any) { c.append("error", args...) }

func (c *Console) append(level string, args ...any) {
	msg := strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	c.entries = append(c.entries, LogEntry{Level: level, Message: msg})
}

// Window mimics the browser window surface. Opened URLs are collected for
// the host to act on after the script finishes.
type Window struct {
	opened []string
	alerts []string
}

// Open records a URL the script wants opened.
func (w *Window) Open(url string) { w.opened = append(w.opened, url) }

// Alert records an alert message.
func (w *Window) Alert(msg string) { w.alerts = append(w.alerts, msg) }

// Document mimics a minimal browser document surface.
type Document struct {
	Title string
}

// Result holds everything observable from a script run.
type Result struct {
	Logs       []LogEntry `json:"logs"`
	OpenedURLs []string   `json:"opened_urls,omitempty"`
	Alerts     []string   `json:"alerts,omitempty"`
}

// runFunc is the signature every script's Run function must have.
type runFunc = func(Item, *Window, *Document, *Console)

// Runner validates and executes item scripts.
type Runner struct {
	allowedImports map[string]bool
	// symbols is the stdlib symbol table filtered to allowedImports.
	// Packages outside the allow-list are absent from the interpreter
	// entirely, not just rejected at validation.
	symbols   interp.Exports
	maxLength int
}

// NewRunner creates a script runner.
// maxLength bounds accepted script source size in bytes; zero means 64 KiB.
func NewRunner(maxLength int) *Runner {
	if maxLength <= 0 {
		maxLength = 64 * 1024
	}
	r := &Runner{
		maxLength: maxLength,
		allowedImports: map[string]bool{
			scriptImportPath: true,

			// Safe stdlib packages.
			"strings":         true,
			"strconv":         true,
			"fmt":             true,
			"math":            true,
			"math/rand":       true,
			"regexp":          true,
			"encoding/json":   true,
			"encoding/base64": true,
			"time":            true,
			"sort":            true,
			"bytes":           true,
			"unicode":         true,
			"net/url":         true,

			// Blocked by omission: os, os/exec, net, net/http, syscall,
			// unsafe, io, bufio and everything else touching the host.
		},
	}
	r.symbols = restrictedSymbols(r.allowedImports)
	return r
}

// restrictedSymbols returns the subset of the interpreter's stdlib symbol
// table covering the allowed imports.
func restrictedSymbols(allowed map[string]bool) interp.Exports {
	symbols := make(interp.Exports, len(allowed))
	for key, pkg := range stdlib.Symbols {
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			continue
		}
		if allowed[key[:idx]] {
			symbols[key] = pkg
		}
	}
	return symbols
}

// Compile validates a script without running it: size and import checks,
// then a full parse and type-check by the interpreter.
// Returns a validation error describing what is wrong with the script.
func (r *Runner) Compile(source string) error {
	if _, err := r.prepare(source); err != nil {
		return err
	}
	return nil
}

// Run executes a script against an item snapshot and returns what it did.
// Script panics are converted to errors. The context bounds the wait for
// the script; a script that ignores cancellation keeps its goroutine until
// it returns on its own.
func (r *Runner) Run(ctx context.Context, source string, item *domain.Item) (*Result, error) {
	run, err := r.prepare(source)
	if err != nil {
		return nil, err
	}

	console := &Console{}
	window := &Window{}
	document := &Document{Title: item.Title}
	snapshot := Item{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		DownloadURL:   item.DownloadURL,
		FileType:      item.FileType,
		FileSize:      item.FileSize,
		Version:       item.Version,
		DownloadCount: item.DownloadCount,
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("script panicked: %v", rec)
				return
			}
			done <- nil
		}()
		run(snapshot, window, document, console)
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "script execution failed")
		}
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), apperrors.CodeInternal, "script execution timed out")
	}

	return &Result{
		Logs:       console.entries,
		OpenedURLs: window.opened,
		Alerts:     window.alerts,
	}, nil
}

// prepare validates the source, evaluates it in a fresh interpreter, and
// returns the script's Run function.
func (r *Runner) prepare(source string) (runFunc, error) {
	if strings.TrimSpace(source) == "" {
		return nil, apperrors.Validation("script is empty")
	}
	if len(source) > r.maxLength {
		return nil, apperrors.Validationf("script exceeds %d bytes", r.maxLength)
	}
	wrapped := wrapSource(source)
	if err := r.validateImports(wrapped); err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(r.symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	if err := i.Use(hostSymbols()); err != nil {
		return nil, fmt.Errorf("load script symbols: %w", err)
	}

	if _, err := i.Eval(wrapped); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidation, "script does not compile")
	}

	v, err := i.Eval("main.Run")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidation, "script has no Run function")
	}
	run, ok := v.Interface().(runFunc)
	if !ok {
		return nil, apperrors.Validation(
			"Run has the wrong signature (want func(script.Item, *script.Window, *script.Document, *script.Console))")
	}
	return run, nil
}

// hostSymbols exposes the script surfaces under the up4down/script import path.
func hostSymbols() interp.Exports {
	return interp.Exports{
		scriptImportPath + "/script": {
			"Item":     reflect.ValueOf((*Item)(nil)),
			"Window":   reflect.ValueOf((*Window)(nil)),
			"Document": reflect.ValueOf((*Document)(nil)),
			"Console":  reflect.ValueOf((*Console)(nil)),
		},
	}
}

// wrapSource turns a script into a complete interpretable program.
// A script may either be a full program (starts with "package") that defines
// Run itself, or a bare function body that runs with item, window, document,
// and console in scope.
func wrapSource(source string) string {
	if strings.HasPrefix(strings.TrimSpace(source), "package ") {
		return source
	}

	var sb strings.Builder
	sb.WriteString("package main\n\n")
	sb.WriteString("import \"" + scriptImportPath + "\"\n\n")
	sb.WriteString("func Run(item script.Item, window *script.Window, document *script.Document, console *script.Console) {\n")
	sb.WriteString("\t_ = item\n\t_ = window\n\t_ = document\n\t_ = console\n")
	sb.WriteString(source)
	sb.WriteString("\n}\n")
	return sb.String()
}

// validateImports parses the program's import declarations and checks every
// import path against the allow-list. Parsing covers all legal import
// spellings (single, grouped, named, compact).
func (r *Runner) validateImports(program string) error {
	file, err := parser.ParseFile(token.NewFileSet(), "script.go", program, parser.ImportsOnly)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidation, "script does not compile")
	}

	var forbidden []string
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			path = strings.Trim(imp.Path.Value, `"`)
		}
		if !r.allowedImports[path] {
			forbidden = append(forbidden, path)
		}
	}

	if len(forbidden) > 0 {
		return apperrors.Validationf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}
