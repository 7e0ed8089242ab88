package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid credentials")
	ErrUserDisabled     = errors.New("user disabled")
	ErrPermissionDenied = errors.New("permission denied")
	ErrSubjectCodeTaken = errors.New("subject code already exists")
)
