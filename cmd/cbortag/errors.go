// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// Exit codes. Usage errors are distinguished from failures so scripts
// can tell "fix your command line" apart from "the input was bad".
const (
	exitFailure = 1
	exitUsage   = 2
)

// errorCategory classifies command errors for exit-code selection.
type errorCategory string

const (
	// categoryValidation means the command line itself was wrong:
	// unknown flags, missing --tag, unexpected positional arguments.
	categoryValidation errorCategory = "validation"

	// categoryInternal means the command line was fine but the work
	// failed: unreadable input, malformed CBOR, a record that is not
	// a tagged record.
	categoryInternal errorCategory = "internal"
)

// commandError is a categorized error returned by subcommands. It wraps
// the underlying error so errors.Is and errors.As see the full chain,
// including cbortag.ErrShapeMismatch.
type commandError struct {
	Category errorCategory
	Err      error
}

func (e *commandError) Error() string { return e.Err.Error() }

func (e *commandError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *commandError) ExitCode() int {
	if e.Category == categoryValidation {
		return exitUsage
	}
	return exitFailure
}

// validation creates an error for bad command-line input.
func validation(format string, args ...any) *commandError {
	return &commandError{Category: categoryValidation, Err: fmt.Errorf(format, args...)}
}

// internal creates an error for a failure while doing the work.
func internal(format string, args ...any) *commandError {
	return &commandError{Category: categoryInternal, Err: fmt.Errorf(format, args...)}
}
