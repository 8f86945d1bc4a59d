package service

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("service: email already registered")

	// ErrSlugExhausted is returned when slug allocation keeps colliding with
	// previously issued slugs. With 4 random bytes this is effectively a
	// storage fault, not a user error.
	ErrSlugExhausted = errors.New("service: could not allocate a unique slug")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrTokenRevoked is returned when a structurally valid session token
	// has been explicitly logged out.
	ErrTokenRevoked = errors.New("service: token revoked")

	// ErrResourceNotFound is returned when the requested resource does not
	// exist.
	ErrResourceNotFound = errors.New("service: resource not found")

	// ErrNotOwner is returned when the acting user is not the owner of the
	// requested resource. The HTTP layer renders it identically to
	// ErrResourceNotFound so resource existence never leaks; the distinct
	// sentinel exists for logs and tests.
	ErrNotOwner = errors.New("service: not the resource owner")

	// ErrValidation flags a caller-supplied value that failed a domain
	// check. Wrap it with a description of the offending field.
	ErrValidation = errors.New("service: validation failed")
)
