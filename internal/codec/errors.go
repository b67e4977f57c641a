package codec

import "errors"

var (
	// ErrMalformedValue marks a stored value that cannot be read for its
	// field type. The accompanying Value is always the empty value.
	ErrMalformedValue = errors.New("malformed field value")

	// ErrEncode is returned when an editable value cannot be rendered for
	// submission, e.g. a value of the wrong kind or a non-numeric number.
	ErrEncode = errors.New("cannot encode field value")
)
