// Package errors classifies pipeline failures into the categories the build
// uses to decide between aborting the run and logging a per-file warning.
package errors

import (
	"errors"
	"fmt"
)

// Category identifies the pipeline stage an error came from.
type Category string

const (
	CategoryWalk     Category = "walk"
	CategoryRead     Category = "read"
	CategoryOptimize Category = "optimize"
	CategoryPreview  Category = "preview"
	CategoryMetadata Category = "metadata"
	CategoryManifest Category = "manifest"
	CategoryConfig   Category = "config"
)

// ProcessingError is the structured error type used throughout the module.
// Fatal errors abort the build; everything else is reported and skipped.
type ProcessingError struct {
	Category Category
	Op       string
	Err      error
	Fatal    bool
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a recoverable ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// NewFatal creates a ProcessingError that must abort the run.
func NewFatal(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err, Fatal: true}
}

// Wrap wraps err as a recoverable error. A nil err stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// WrapFatal wraps err as a fatal error. A nil err stays nil.
func WrapFatal(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewFatal(category, op, err)
}

// IsFatal reports whether err must abort the build. Errors that did not come
// through this package are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Fatal
	}
	return true
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// CategoryOf returns the category of err, or "" when it is not a ProcessingError.
func CategoryOf(err error) Category {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}

// Sentinel errors for common failure modes.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrPreviewCollision  = errors.New("preview path already claimed")
	ErrPreviewInSource   = errors.New("preview directory inside source directory")
)
