package services

import "errors"

// Domain errors surfaced by the matchmaking service. Controllers match
// them with errors.Is and translate to HTTP statuses.
var (
	// ErrNotFound: the reservation or post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPreconditionFailed: no deposit recorded, or the reservation is
	// already bound to a post.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrUnauthorized: the actor does not own the post.
	ErrUnauthorized = errors.New("not the post owner")
	// ErrConflict: an invitation for this (post, user) pair already exists.
	ErrConflict = errors.New("invitation already exists")
	// ErrCapacityExceeded: the post is full.
	ErrCapacityExceeded = errors.New("post is full")
	// ErrInvalidState: no pending invitation to respond to. Deliberately
	// covers both "never invited" and "already responded" so a response
	// does not leak whether an invitation ever existed.
	ErrInvalidState = errors.New("no pending invitation")
)
