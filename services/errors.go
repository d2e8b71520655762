package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/college_crp/store"
)

// ValidationError rejects input before it reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError names the missing entity; it matches store.ErrNotFound.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrNotFound
}

func notFound(entity string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity}
	}
	return err
}

var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
