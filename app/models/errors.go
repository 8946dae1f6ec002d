package models

import "errors"

// ErrNotFound is returned when a record doesn't exist. Soft-deleted
// entities read as not found on the query paths.
var ErrNotFound = errors.New("record not found")

// ValidationError reports input that violates a content or request rule.
// It maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ConflictError reports a command that lost to the current state: a stale
// version, a duplicate like, or a transition on a deleted entity. It maps
// to a 409.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// AuthorizationError reports an actor who is not allowed to perform the
// command. It maps to a 403.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}
