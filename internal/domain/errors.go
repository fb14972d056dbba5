package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateCategory is returned when creating a category whose
	// name already exists for the same user.
	ErrDuplicateCategory = errors.New("category name already exists")
)
