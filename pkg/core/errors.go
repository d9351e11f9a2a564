package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the two failure kinds of the dashboard.
var (
	// ErrDataUnavailable means the source tables could not be loaded. It is fatal.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrEmptySelection means a filter combination selected no rows. It is not fatal.
	ErrEmptySelection = errors.New("empty selection")
)

// DataUnavailableError describes why a source table could not be loaded.
type DataUnavailableError struct {
	Source string // source type, e.g. "csv"
	Table  string // "matches" or "deliveries"
	Path   string // file path or table name
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	var b strings.Builder
	b.WriteString("data unavailable")
	if e.Table != "" {
		fmt.Fprintf(&b, ": %s", e.Table)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataUnavailable) match.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// MissingColumnError builds a DataUnavailableError for a missing required column.
func MissingColumnError(source, table, path, column string) *DataUnavailableError {
	return &DataUnavailableError{
		Source: source,
		Table:  table,
		Path:   path,
		Reason: fmt.Sprintf("missing required column %q", column),
	}
}

// EmptySelectionError reports a team/season combination without matches.
type EmptySelectionError struct {
	Team   string
	Season string
}

func (e *EmptySelectionError) Error() string {
	if e.Season == "" {
		return fmt.Sprintf("no matches for %s", e.Team)
	}
	return fmt.Sprintf("no matches for %s in season %s", e.Team, e.Season)
}

// Is makes errors.Is(err, ErrEmptySelection) match.
func (e *EmptySelectionError) Is(target error) bool {
	return target == ErrEmptySelection
}

// UnknownSourceError is returned when an unknown source type is configured.
type UnknownSourceError struct {
	Type      string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source type %q\nAvailable sources: %v\nHint: Check source.type in crease.yaml", e.Type, e.Available)
}
