package main

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitMissingFile = 3
)

// UsageError reports a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// MissingFileError reports an input file that does not exist.
//
//	var missing *MissingFileError
//	if errors.As(err, &missing) {
//	    fmt.Println(missing.Path)
//	}
type MissingFileError struct {
	// Role says what the file was for, e.g. "message" or "corpus".
	Role string

	Path string

	Err error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s file not found: %s", e.Role, e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return exitUsage
	}
	var missing *MissingFileError
	if errors.As(err, &missing) {
		return exitMissingFile
	}
	return exitFailure
}

// interrupted reports whether err only says the search was cut short.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
