package engine

import "errors"

var (
	// ErrClassification means no routing decision could be obtained for the
	// query. Fatal for the current request.
	ErrClassification = errors.New("query classification failed")

	// ErrSynthesis means the final answer-merge step failed outright.
	// Suggestion failures are not synthesis failures; they fall back to
	// defaults silently.
	ErrSynthesis = errors.New("answer synthesis failed")

	// ErrSessionNotFound is returned by explicit session operations on an
	// unknown session id.
	ErrSessionNotFound = errors.New("session not found")
)
