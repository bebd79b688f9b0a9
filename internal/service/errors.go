// Package service provides business logic services for GroupOrder Hub.
package service

import "errors"

// Common service errors.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password: must be at least 8 characters")
	ErrInvalidUsername    = errors.New("invalid username: must be 3-255 characters")
	ErrAdminUndeletable   = errors.New("admin accounts cannot be deleted through member operations")

	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product: name required and price must not be negative")

	// Order errors
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("invalid quantity: must be at least 1")

	// Group errors
	ErrGroupNameEmpty = errors.New("group name must not be empty")
	ErrGroupInUse     = errors.New("group still has members")

	// Session errors
	ErrSessionInvalid = errors.New("invalid or expired session")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
