// Package common defines shared constants and sentinel errors used across
// Facenote components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Account/session errors.
	ErrDuplicateAccount   = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not logged in")

	// Face verification errors.
	ErrFaceNotAvailable = errors.New("account not found or face not registered")
)
