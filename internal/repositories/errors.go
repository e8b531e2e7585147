package repositories

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidID    = errors.New("invalid id format")
)
