package service

import (
	"errors"
	"sort"
	"strings"
)

// Error definitions
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrNoToko       = errors.New("user has no toko")
	ErrStorage      = errors.New("storage failure")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError carries one message per rejected field. Nothing has been
// written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// merge adds src into the error's fields, keeping existing messages.
func (e *ValidationError) merge(src map[string]string) {
	for k, v := range src {
		if _, ok := e.Fields[k]; !ok {
			e.Fields[k] = v
		}
	}
}

// orNil returns nil when no field failed.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
