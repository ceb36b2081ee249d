package domain

import "errors"

var (
	ErrMalformedPayload   = errors.New("malformed frame payload")
	ErrEmptyMessage       = errors.New("empty or missing message field")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
