package errors

import (
	"fmt"
)

// ParseError represents a policy file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InputError captures invalid or missing CLI input. It is always raised
// before any provider call is made.
type InputError struct {
	Field   string
	Message string
	Err     error
}

// NewInputError constructs an InputError.
func NewInputError(field, message string, err error) error {
	return &InputError{Field: field, Message: message, Err: err}
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *InputError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthError indicates the provider rejected a call because the credential is
// missing or insufficient. Authorization is a run-wide precondition, so the
// runner aborts the whole run when it sees one.
type AuthError struct {
	Provider string
	Err      error
}

// NewAuthError constructs an AuthError for the given provider.
func NewAuthError(provider string, err error) error {
	return &AuthError{Provider: provider, Err: err}
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Provider != "" {
		return fmt.Sprintf("authentication failed [%s]: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PrerequisiteError indicates a check that later checks depend on has failed
// or its target resource is absent. It is fatal for the run; remaining checks
// are recorded as skipped.
type PrerequisiteError struct {
	CheckID string
	Err     error
}

// NewPrerequisiteError constructs a PrerequisiteError.
func NewPrerequisiteError(checkID string, err error) error {
	return &PrerequisiteError{CheckID: checkID, Err: err}
}

func (e *PrerequisiteError) Error() string {
	if e == nil {
		return ""
	}
	if e.CheckID != "" {
		return fmt.Sprintf("prerequisite %s failed: %v", e.CheckID, e.Err)
	}
	return fmt.Sprintf("prerequisite failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *PrerequisiteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ApplyError represents a failed mutating call for a single property. It is
// recorded against that property only and does not abort independent checks.
type ApplyError struct {
	CheckID string
	Err     error
}

// NewApplyError constructs an ApplyError.
func NewApplyError(checkID string, err error) error {
	return &ApplyError{CheckID: checkID, Err: err}
}

func (e *ApplyError) Error() string {
	if e == nil {
		return ""
	}
	if e.CheckID != "" {
		return fmt.Sprintf("apply failed for %s: %v", e.CheckID, e.Err)
	}
	return fmt.Sprintf("apply failed: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
