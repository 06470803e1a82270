// Package tools locates external tools used by the release pipeline.
package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// NotFoundError is returned when no resolution strategy located the tool.
type NotFoundError struct {
	Tool string
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found (%s)", e.Tool, e.Hint)
	}
	return fmt.Sprintf("%s not found", e.Tool)
}

// IsNotFound reports whether err is a tool resolution failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Resolver locates a tool by trying, in order: an explicitly configured
// path, a PATH lookup for each candidate name, and a fixed list of
// well-known installation paths.
type Resolver struct {
	// Tool is the human-readable tool name used in error messages.
	Tool string
	// Explicit is an operator-configured path. When set and present it
	// always wins; when set and absent resolution continues.
	Explicit string
	// Names are the executable names to look up on PATH.
	Names []string
	// Fallbacks are absolute paths probed last.
	Fallbacks []string
	// Hint is appended to the not-found error (e.g. an install command).
	Hint string
}

// Resolve returns the path of the first strategy that finds the tool.
func (r *Resolver) Resolve() (string, error) {
	if r.Explicit != "" {
		if _, err := os.Stat(r.Explicit); err == nil {
			return r.Explicit, nil
		}
	}

	for _, name := range r.Names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	for _, path := range r.Fallbacks {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	tool := r.Tool
	if tool == "" {
		tool = strings.Join(r.Names, "/")
	}
	return "", &NotFoundError{Tool: tool, Hint: r.Hint}
}
