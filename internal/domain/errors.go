package domain

import (
	"fmt"
	"sort"
	"strings"
)

// StorageError reports that the storage medium failed or rejected an
// operation on a slot.
type StorageError struct {
	Op   string // "read", "write" or "delete"
	Slot string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Slot, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError reports a stored blob that could not be decoded.
type ParseError struct {
	Slot string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Slot, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError collects per-field problems with a submission. It is
// returned before anything reaches the store.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid idea: " + strings.Join(parts, "; ")
}
