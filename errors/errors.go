package errors

import "errors"

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Task errors
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskTitleInvalid = errors.New("task title must be between 1 and 255 characters")
)

// Token errors
var (
	ErrTokenSignature   = errors.New("could not sign token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
)

var (
	ErrInternalServer = errors.New("internal server error")
)
