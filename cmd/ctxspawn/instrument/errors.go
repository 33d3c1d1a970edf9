// Package instrument - Positioned error type for rewrite failures.
//
// Errors carry file position (file:line:column) and an optional suggestion.
//
// Example output:
//
//	main.go:42:2: cannot rewrite go statement: unsupported callee
//
//	Suggestion: route this call site through spawn.Go manually
package instrument

import (
	"fmt"
	"go/token"
)

// RewriteError represents a rewrite failure with source position context.
//
// Fields:
//   - File: Source file path where the failure occurred
//   - Line: Line number (1-indexed)
//   - Column: Column number (1-indexed)
//   - Message: Human-readable description
//   - Suggestion: Optional hint for resolving the failure (empty if none)
//
// Thread Safety: Immutable after creation, safe for concurrent use.
type RewriteError struct {
	File       string
	Line       int
	Column     int
	Message    string
	Suggestion string
}

// Error implements the error interface.
//
// Format: file:line:column: message, with the suggestion appended on its
// own line when present.
func (e *RewriteError) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return msg
}

// newRewriteError builds a RewriteError from a token position.
func newRewriteError(fset *token.FileSet, pos token.Pos, message, suggestion string) *RewriteError {
	p := fset.Position(pos)
	return &RewriteError{
		File:       p.Filename,
		Line:       p.Line,
		Column:     p.Column,
		Message:    message,
		Suggestion: suggestion,
	}
}
