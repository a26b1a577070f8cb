package jamai

import "errors"

// Failure classes a caller can act on. Everything else is wrapped as a
// plain transport error.
var (
	// ErrUnauthorized means the project ID / PAT pair was rejected.
	ErrUnauthorized = errors.New("jamai: unauthorized")
	// ErrRateLimited means the free-tier quota was exhausted.
	ErrRateLimited = errors.New("jamai: rate limited")
	// ErrBadResponse means the service answered but the body was not the
	// shape the client expects.
	ErrBadResponse = errors.New("jamai: unexpected response")
)
