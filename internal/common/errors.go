// Package common defines shared constants and sentinel errors used across
// the wanderlog client layers. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Cache payload errors.
	ErrMalformedCache = errors.New("malformed cache payload")

	// Catalog errors.
	ErrUnknownLocation = errors.New("unknown location")

	// Validation errors for partial visit updates.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid, expired or subject-less session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
