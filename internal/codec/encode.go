package codec

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

// TransportMode selects the wire convention of the update endpoint.
type TransportMode int

const (
	// StringLiteral renders every value as a JSON string, as expected by
	// the validate-update endpoint.
	StringLiteral TransportMode = iota
	// NativeTyped renders values with their natural JSON type, as expected
	// by a direct item update.
	NativeTyped
)

func (m TransportMode) String() string {
	switch m {
	case StringLiteral:
		return "literal"
	case NativeTyped:
		return "native"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseTransportMode accepts "literal" or "native".
func ParseTransportMode(s string) (TransportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literal", "string", "stringliteral":
		return StringLiteral, nil
	case "native", "typed", "nativetyped":
		return NativeTyped, nil
	}
	return 0, fmt.Errorf("unknown transport mode %q", s)
}

const (
	// multiChoiceSeparator joins multi-choice labels in the legacy format.
	multiChoiceSeparator = ";#"
	termSeparator        = ";"
	termPartSeparator    = "|"

	// isoLayout matches the ISO-8601 instants the host emits (millisecond
	// precision, Z suffix).
	isoLayout = "2006-01-02T15:04:05.000Z"
)

// Encode renders an editable value as a single JSON literal for the given
// transport mode.
func Encode(field models.FieldDescriptor, v Value, mode TransportMode) (json.RawMessage, error) {
	switch field.Type {
	case models.FieldTypeNumber:
		t, ok := v.(Text)
		if !ok {
			return nil, mismatch(field, v)
		}
		if mode == StringLiteral {
			return quote(string(t))
		}
		return number(field, string(t))

	case models.FieldTypeYesNo:
		b, ok := v.(YesNo)
		if !ok {
			return nil, mismatch(field, v)
		}
		lit := strconv.FormatBool(bool(b))
		if mode == StringLiteral {
			return quote(lit)
		}
		return json.RawMessage(lit), nil

	case models.FieldTypeMultiChoice:
		c, ok := v.(Choices)
		if !ok {
			return nil, mismatch(field, v)
		}
		if mode == StringLiteral {
			return quote(strings.Join(c, multiChoiceSeparator))
		}
		if c == nil {
			c = Choices{}
		}
		return marshal(field, []string(c))

	case models.FieldTypeDateTime:
		d, ok := v.(DateTime)
		if !ok {
			return nil, mismatch(field, v)
		}
		if d.IsEmpty() {
			return quote("")
		}
		return quote(d.At.UTC().Format(isoLayout))

	case models.FieldTypeManagedMetadata:
		t, ok := v.(Terms)
		if !ok {
			return nil, mismatch(field, v)
		}
		return quote(termsLiteral(t))

	default:
		t, ok := v.(Text)
		if !ok {
			return nil, mismatch(field, v)
		}
		return quote(string(t))
	}
}

func termsLiteral(terms Terms) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.Label+termPartSeparator+t.ID)
	}
	return strings.Join(parts, termSeparator)
}

func quote(s string) (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b, nil
}

func marshal(field models.FieldDescriptor, v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrEncode, field.InternalName, err)
	}
	return b, nil
}

var (
	jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	// groupedNumber matches the host's display form, e.g. "1,234.5".
	groupedNumber = regexp.MustCompile(`^-?[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`)
)

// number emits s as a bare JSON number. Text that already is one is sent as
// written so long integers keep every digit.
func number(field models.FieldDescriptor, s string) (json.RawMessage, error) {
	s = strings.TrimSpace(s)
	if groupedNumber.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if jsonNumber.MatchString(s) {
		return json.RawMessage(s), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: field %s: %q is not a number", ErrEncode, field.InternalName, s)
	}
	return json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

func mismatch(field models.FieldDescriptor, v Value) error {
	return fmt.Errorf("%w: field %s of type %s cannot hold %T", ErrEncode, field.InternalName, field.Type, v)
}
