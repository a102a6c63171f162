package service

import (
	"github.com/pkg/errors"
)

var (
	ErrValidation         = errors.New("username or password too short")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("no active session")
	ErrNotOwner           = errors.New("bookmark belongs to another user")
	ErrCapacityExceeded   = errors.New("bookmark limit reached")
	ErrNotFound           = errors.New("bookmark not found")
)
