package model

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors wrap one of these so handlers can map
// them to a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// User errors
var (
	ErrMissingRegisterFields = fmt.Errorf("%w: username, email and password are required", ErrValidation)
	ErrMissingLoginFields    = fmt.Errorf("%w: email and password are required", ErrValidation)
	ErrEmailExists           = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUserNotFound          = fmt.Errorf("%w: user", ErrNotFound)

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

	// ErrInvalidSession covers missing, malformed, expired, tampered and revoked tokens.
	ErrInvalidSession = fmt.Errorf("%w: invalid session", ErrUnauthorized)
)

// Post errors
var (
	ErrPostNotFound     = fmt.Errorf("%w: post", ErrNotFound)
	ErrNotPostOwner     = fmt.Errorf("%w: not the owner of this post", ErrForbidden)
	ErrTitleRequired    = fmt.Errorf("%w: title and content are required", ErrValidation)
	ErrCommentRequired  = fmt.Errorf("%w: comment text is required", ErrValidation)
	ErrMalformedPostRow = errors.New("malformed post row")
)

// Error codes for HTTP responses
const (
	CodeEmailTaken   = "EMAIL_TAKEN"
	CodeTokenInvalid = "TOKEN_INVALID"
)
