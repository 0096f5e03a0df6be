package domain

import "errors"

// Sentinel errors for the interview protocol. Handlers wrap these in
// apperror values; callers branch with errors.Is.
var (
	// ErrValidation marks rejected candidate fields. Recoverable: the
	// caller corrects the input and retries.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState marks a transition attempted on a session that is
	// not in_progress (terminal sessions included).
	ErrInvalidState = errors.New("invalid session state")

	// ErrOutOfSequence marks an answer submitted for the wrong question
	// index, a resubmission, or a submit racing a pending score.
	ErrOutOfSequence = errors.New("answer out of sequence")

	// ErrSessionConflict marks a start attempt while the candidate
	// already has an in-progress session.
	ErrSessionConflict = errors.New("session already in progress")

	// ErrNotFound marks a lookup miss (candidate or resumable session).
	ErrNotFound = errors.New("not found")

	// ErrEmptyInput marks aggregation over zero answers. A completed
	// session can never hit this; it is an invariant check.
	ErrEmptyInput = errors.New("no answers to aggregate")

	// ErrUnsupportedFormat marks a resume upload in a format no decoder
	// handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
