package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenExpired = errors.New("token has expired")
	ErrMissingClerk = errors.New("token carries no clerk id")
)
