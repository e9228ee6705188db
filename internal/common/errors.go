// Package common defines shared sentinel errors and small helpers used across
// the RFP monitor engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Gate errors.
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("not signed in")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// State machine and domain rule errors.
	ErrInvalidState      = errors.New("invalid state")
	ErrTemplateProtected = errors.New("template search areas cannot be deleted")

	// Connectivity / storage errors.
	ErrOffline          = errors.New("offline")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrQuotaExceeded    = errors.New("storage quota exceeded")
)
