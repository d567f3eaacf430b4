// Package errors provides standardized error types and helpers for the probconv codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrParse indicates malformed or unsupported input syntax
	ErrParse = errors.New("parse error")
	// ErrRender indicates a tree that cannot be rendered to the target format
	ErrRender = errors.New("render error")
	// ErrIllegalChild indicates a schema violation in the problem tree
	ErrIllegalChild = errors.New("illegal child")
	// ErrUnknownFormat indicates an unrecognized parser or renderer name
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnsupported indicates an unsupported operation or construct
	ErrUnsupported = errors.New("unsupported")
)

// ParseError represents a parsing error with context
type ParseError struct {
	Format  string // Format being parsed (e.g., "dsctex", "gsmd")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("failed to parse: %s", e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// RenderError represents a rendering error with context
type RenderError struct {
	Format  string // Target format (e.g., "gsmd", "html")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *RenderError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("failed to render %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("failed to render: %s", e.Message)
}

func (e *RenderError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRender, e.Err}
	}
	return []error{ErrRender}
}

// UnsupportedError represents an unsupported feature or construct
type UnsupportedError struct {
	Feature string // Feature or construct that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnsupported, e.Err}
	}
	return []error{ErrUnsupported}
}

// Helper functions for creating common errors

// NewParse creates a ParseError
func NewParse(format, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Message: message,
	}
}

// NewParsef creates a ParseError with a formatted message
func NewParsef(format, msgFormat string, args ...interface{}) *ParseError {
	return &ParseError{
		Format:  format,
		Message: fmt.Sprintf(msgFormat, args...),
	}
}

// NewRender creates a RenderError
func NewRender(format, message string) *RenderError {
	return &RenderError{
		Format:  format,
		Message: message,
	}
}

// NewRenderf creates a RenderError with a formatted message
func NewRenderf(format, msgFormat string, args ...interface{}) *RenderError {
	return &RenderError{
		Format:  format,
		Message: fmt.Sprintf(msgFormat, args...),
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
