package services

import "errors"

var (
	// ErrNothingToSubmit is returned by Submit when every item is omitted
	// from the payload. No request is sent.
	ErrNothingToSubmit = errors.New("nothing to submit")

	// ErrAlreadySubmitted is returned by Submit for a batch that has been
	// sent and not edited since.
	ErrAlreadySubmitted = errors.New("batch already submitted")
)
