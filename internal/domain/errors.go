package domain

import "errors"

var (
	// ErrNotFound is returned when a session, project or action item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrModelNotConfigured is returned by a model that has no backing AI capability.
	ErrModelNotConfigured = errors.New("no AI model configured")

	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidLevel    = errors.New("invalid insight level")
	ErrEmptyName       = errors.New("name must not be empty")
)
