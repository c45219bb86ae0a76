package decision

import "errors"

var (
	ErrNoCandidates       = errors.New("no candidate endpoints")
	ErrMalformedDecision  = errors.New("malformed decision")
	ErrEmptyGreeting      = errors.New("empty greeting")
	ErrNoSuitableResolver = errors.New("no suitable resolver endpoint")
)
