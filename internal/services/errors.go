package services

import "errors"

var (
	ErrInternal         = errors.New("internal server error")
	ErrUnauthenticated  = errors.New("must be logged in")
	ErrUserNotFound     = errors.New("user not found")
	ErrTargetNotFound   = errors.New("user to follow not found")
	ErrCannotFollowSelf = errors.New("you cannot follow yourself")
	ErrInvalidUsername  = errors.New("username must be 3-20 letters, numbers, '_' or '-'")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("you are not the author of this post")
)
