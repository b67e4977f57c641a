// Package codec converts field values between the three shapes they take in
// the editor:
//
//   - the stored form kept in models.PropertyItem.Value (always a string,
//     JSON for collections),
//   - the editable form (Value), one variant per logical field kind,
//   - the submission form, a single JSON literal whose shape depends on the
//     TransportMode expected by the update endpoint.
//
// Decode, Encode and Stored are pure. Decode never fails hard: on malformed
// input it returns the empty value of the right variant together with an
// error wrapping ErrMalformedValue, so callers can log and carry on.
//
// The two transports disagree on the wire format of multi-choice fields.
// StringLiteral sends the legacy "A;#B" form, NativeTyped sends a JSON array.
// Both formats are intentional and covered by tests.
package codec
