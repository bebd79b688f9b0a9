package domain

import "errors"

// Domain errors. Absence of an entity is an ordinary, expected outcome in
// this system, so lookups report it with these sentinels instead of
// wrapped infrastructure errors; callers branch with errors.Is.

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)
