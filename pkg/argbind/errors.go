// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes of resolution errors.
const (
	ExitDuplicateKey    = 9
	ExitMissingRequired = 10
	ExitInvalidValue    = 11
)

// DuplicateKeyError is returned when two enabled declarations share a name
// or alias. It is detected before any value is read.
type DuplicateKeyError struct {
	Key   string
	Names []string // Declarations that use Key.
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate argument key %q used by %s", e.Key, strings.Join(e.Names, ", "))
}

func (e *DuplicateKeyError) ExitCode() int { return ExitDuplicateKey }

// MissingRequiredArgumentError is returned when a required argument has no
// value from any source.
type MissingRequiredArgumentError struct {
	Name        string
	Description string
	MissingText string
}

func (e *MissingRequiredArgumentError) Error() string {
	msg := fmt.Sprintf("missing required argument %q", e.Name)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.MissingText != "" {
		msg += "\n" + e.MissingText
	}
	return msg
}

func (e *MissingRequiredArgumentError) ExitCode() int { return ExitMissingRequired }

// InvalidValueError is returned when a value is not one of the allowed
// choices.
type InvalidValueError struct {
	Name    string
	Value   string
	Allowed []Choice
}

func (e *InvalidValueError) Error() string {
	vals := make([]string, len(e.Allowed))
	for i, c := range e.Allowed {
		vals[i] = fmt.Sprintf("%q", c.Value)
	}
	return fmt.Sprintf("invalid value %q for %s, expected one of %s", e.Value, e.Name, strings.Join(vals, ", "))
}

func (e *InvalidValueError) ExitCode() int { return ExitInvalidValue }

// ValidationCallbackError wraps an error returned by a Validate callback.
type ValidationCallbackError struct {
	Name string
	Code int
	Err  error
}

func (e *ValidationCallbackError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ValidationCallbackError) Unwrap() error {
	return e.Err
}

func (e *ValidationCallbackError) ExitCode() int { return e.Code }

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

// Fail returns an error carrying an exit code, for use in Validate
// callbacks.
func Fail(code int, format string, args ...any) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

// ExitCode returns the process exit code for err: 0 for nil, the code of
// any error in the chain with an ExitCode method, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var c interface{ ExitCode() int }
	if errors.As(err, &c) {
		return c.ExitCode()
	}
	return 1
}

// ArgumentName returns the name of the argument err refers to, if any.
func ArgumentName(err error) string {
	var (
		missing *MissingRequiredArgumentError
		invalid *InvalidValueError
		cb      *ValidationCallbackError
		dup     *DuplicateKeyError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Name
	case errors.As(err, &invalid):
		return invalid.Name
	case errors.As(err, &cb):
		return cb.Name
	case errors.As(err, &dup):
		return dup.Key
	}
	return ""
}

// validationError wraps a callback error. A failure never carries exit
// code 0.
func validationError(name string, err error) error {
	var ve *ValidationCallbackError
	if errors.As(err, &ve) {
		if ve.Code == 0 {
			ve.Code = 1
		}
		return err
	}
	code := ExitCode(err)
	if code == 0 {
		code = 1
	}
	return &ValidationCallbackError{Name: name, Code: code, Err: err}
}
