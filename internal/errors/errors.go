package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Site Crawler client
var (
	// Login errors
	ErrTimeout            = errors.New("request timeout")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginFailed        = errors.New("login failed")

	// Authenticated request errors
	ErrUnauthenticated = errors.New("no authentication token found")
	ErrSessionExpired  = errors.New("session expired")
	ErrRequestFailed   = errors.New("request failed")

	// Website credential errors (the stored session stays intact)
	ErrInvalidWebsiteCredentials = errors.New("invalid username or password for this website")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
