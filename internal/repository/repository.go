// Package repository persists users and bookmarks through gorm.
package repository

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrAtCapacity is returned by CreateForOwner when the owner already
	// holds the maximum number of bookmarks.
	ErrAtCapacity = errors.New("owner is at bookmark capacity")
)
