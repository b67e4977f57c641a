package codec

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

// Value is an editable field value. The set of implementations is closed.
type Value interface {
	// IsEmpty reports whether the value means "no value".
	IsEmpty() bool
	// String renders the value for display.
	String() string

	isValue()
}

// Text is the editable form of plain text, number, single choice and any
// field edited as raw text.
type Text string

func (t Text) IsEmpty() bool  { return t == "" }
func (t Text) String() string { return string(t) }
func (Text) isValue()         {}

// YesNo is the editable form of a boolean field. It is never empty.
type YesNo bool

func (YesNo) IsEmpty() bool { return false }
func (b YesNo) String() string {
	if b {
		return yesLiteral
	}
	return noLiteral
}
func (YesNo) isValue() {}

// Choices is the ordered selection of a multi-choice field.
type Choices []string

func (c Choices) IsEmpty() bool  { return len(c) == 0 }
func (c Choices) String() string { return strings.Join(c, ", ") }
func (Choices) isValue()         {}

// With returns a copy of c with label appended, unless already selected.
func (c Choices) With(label string) Choices {
	out := append(Choices(nil), c...)
	for _, v := range c {
		if v == label {
			return out
		}
	}
	return append(out, label)
}

// Without returns a copy of c with every occurrence of label removed.
func (c Choices) Without(label string) Choices {
	out := make(Choices, 0, len(c))
	for _, v := range c {
		if v != label {
			out = append(out, v)
		}
	}
	return out
}

// DateTime is the editable form of a date field. The zero time means no value.
type DateTime struct {
	At time.Time
}

func (d DateTime) IsEmpty() bool { return d.At.IsZero() }
func (d DateTime) String() string {
	if d.At.IsZero() {
		return ""
	}
	return d.At.Format(time.RFC3339)
}
func (DateTime) isValue() {}

// Terms is the editable form of a managed metadata field.
type Terms []models.TermReference

func (t Terms) IsEmpty() bool { return len(t) == 0 }
func (t Terms) String() string {
	parts := make([]string, 0, len(t))
	for _, term := range t {
		parts = append(parts, term.Label+" ("+term.ID+")")
	}
	return strings.Join(parts, ", ")
}
func (Terms) isValue() {}

// Empty returns the empty editable value for the field's type.
func Empty(field models.FieldDescriptor) Value {
	switch field.Type {
	case models.FieldTypeYesNo:
		return YesNo(false)
	case models.FieldTypeMultiChoice:
		return Choices{}
	case models.FieldTypeDateTime:
		return DateTime{}
	case models.FieldTypeManagedMetadata:
		return Terms{}
	default:
		return Text("")
	}
}
