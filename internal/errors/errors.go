// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyThread   = errors.New("summary thread is empty")
	ErrNoSummary     = errors.New("no usable summary produced")
	ErrConfigInvalid = errors.New("invalid configuration")
	ErrUniverseEmpty = errors.New("ticker universe is empty")
	ErrStoreClosed   = errors.New("store is closed")
)

// DetectionError represents a failure while querying the market data
// source for a ticker. The driver treats it as "no event detected".
type DetectionError struct {
	Ticker string
	Err    error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection error [%s]: %v", e.Ticker, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// NewDetectionError creates a new DetectionError.
func NewDetectionError(ticker string, err error) *DetectionError {
	return &DetectionError{Ticker: ticker, Err: err}
}

// GenerationError represents a failure while producing a summary thread.
// The event is skipped and stays eligible for the next pass.
type GenerationError struct {
	Ticker string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error [%s]: %v", e.Ticker, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(ticker string, err error) *GenerationError {
	return &GenerationError{Ticker: ticker, Err: err}
}

// PublishError represents a failure at some position of the reply chain.
// Posts made before the failing one are left on the platform unretracted;
// Posted reports how many succeeded.
type PublishError struct {
	Ticker string
	Posted int
	Total  int
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish error [%s] after %d/%d posts: %v", e.Ticker, e.Posted, e.Total, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// NewPublishError creates a new PublishError.
func NewPublishError(ticker string, posted, total int, err error) *PublishError {
	return &PublishError{Ticker: ticker, Posted: posted, Total: total, Err: err}
}

// StoreError represents a persistence failure of the processed-record
// store. It is unrecoverable for the current run: swallowing it risks
// silent duplicate posting later.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, path string, err error) *StoreError {
	return &StoreError{Op: op, Path: path, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
