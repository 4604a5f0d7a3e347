// Package parsererror defines the named errors reported while reading,
// normalizing and persisting settlement data.
package parsererror

import (
	"errors"
	"fmt"
)

// Fatal conditions that stop a run without producing output.
var (
	ErrNoInputFiles     = errors.New("no input files were provided")
	ErrNoMarketProducts = errors.New("market product list is empty; add market product names first")
	ErrNoValidRows      = errors.New("none of the uploaded files contain valid outbound or inbound rows")
)

// ReadError reports a spreadsheet that could not be opened or decoded.
type ReadError struct {
	File string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read file: %s (%v)", e.File, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NotTargetError reports a file that has neither a ship-date nor a receipt-date column.
type NotTargetError struct {
	File string
}

func (e *NotTargetError) Error() string {
	return fmt.Sprintf("not a processing target: %s (no ship-date or receipt-date column)", e.File)
}

// MissingColumnError reports a file that lacks a column required for filtering.
type MissingColumnError struct {
	File   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column '%s' in %s", e.Column, e.File)
}

// PersistenceError reports a failed market-list load or save.
// The in-memory list keeps the mutation even when saving fails.
type PersistenceError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store: %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsFileError reports whether err is a per-file error that should be collected, not returned.
func IsFileError(err error) bool {
	var readErr *ReadError
	var notTarget *NotTargetError
	var missing *MissingColumnError
	return errors.As(err, &readErr) || errors.As(err, &notTarget) || errors.As(err, &missing)
}
