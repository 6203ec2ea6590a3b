// Package common defines shared sentinel errors used across the ForceCloud
// client, the database builder/syncer, and the storage layer. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Auth errors: no session, expired session, or a token the API rejected.
	// The remediation is always the same: call Login again.
	ErrAuth = errors.New("authentication error")

	// Validation errors: malformed or mutually-exclusive caller inputs,
	// caught before any network call is made.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers HTTP 404 and queries the API reports as empty.
	ErrNotFound = errors.New("not found")

	// ErrServer covers 5xx responses from the API.
	ErrServer = errors.New("server error")

	// ErrConfig covers unknown enum values: regions, file formats.
	ErrConfig = errors.New("configuration error")
)
