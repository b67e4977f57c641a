package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

const (
	yesLiteral = "Yes"
	noLiteral  = "No"
)

// Decode turns a stored field value into its editable form.
//
// Decode is total: whatever raw holds, the returned Value is usable. When raw
// cannot be read for the field's type the empty value is returned along with
// an error wrapping ErrMalformedValue.
func Decode(field models.FieldDescriptor, raw string) (Value, error) {
	switch field.Type {
	case models.FieldTypeYesNo:
		return YesNo(unquote(raw) == yesLiteral), nil

	case models.FieldTypeMultiChoice:
		return decodeChoices(raw)

	case models.FieldTypeDateTime:
		return decodeDateTime(raw)

	case models.FieldTypeManagedMetadata:
		return decodeTerms(field, raw)

	default:
		// PlainText, Number, Choice, MultiLineText and Unsupported are
		// edited as the raw string.
		return Text(raw), nil
	}
}

// unquote strips one level of JSON string quoting, if raw is a JSON string.
func unquote(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return raw
	}
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return raw
	}
	return out
}

func decodeChoices(raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return Choices{}, nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return Choices{}, fmt.Errorf("%w: choices %q: %v", ErrMalformedValue, raw, err)
	}
	if labels == nil {
		labels = []string{}
	}
	return Choices(labels), nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// jsDateSuffix matches the "(Zone Name)" tail of a JavaScript Date string.
var jsDateSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseDate reads a date literal as produced by the host or typed by a user.
// Literals without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(jsDateSuffix.ReplaceAllString(unquote(s), ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrMalformedValue, s)
}

func decodeDateTime(raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return DateTime{}, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{At: t}, nil
}

// termWire accepts both the stored shape {"TermID","Label"} and the shape
// produced by term pickers {"id","labels":[{"name"}]}.
type termWire struct {
	TermID string `json:"TermID"`
	Label  string `json:"Label"`
	ID     string `json:"id"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

func (w termWire) reference() models.TermReference {
	ref := models.TermReference{ID: w.TermID, Label: w.Label}
	if ref.ID == "" {
		ref.ID = w.ID
	}
	if ref.Label == "" && len(w.Labels) > 0 {
		ref.Label = w.Labels[0].Name
	}
	return ref
}

func decodeTerms(field models.FieldDescriptor, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Terms{}, nil
	}

	var wires []termWire
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &wires); err != nil {
			return Terms{}, fmt.Errorf("%w: terms %q: %v", ErrMalformedValue, raw, err)
		}
	} else {
		var w termWire
		if err := json.Unmarshal([]byte(s), &w); err != nil {
			return Terms{}, fmt.Errorf("%w: term %q: %v", ErrMalformedValue, raw, err)
		}
		wires = []termWire{w}
	}

	terms := make(Terms, 0, len(wires))
	for _, w := range wires {
		ref := w.reference()
		if ref.ID == "" {
			continue
		}
		terms = append(terms, ref)
	}
	if !field.MultiValue && len(terms) > 1 {
		terms = terms[:1]
	}
	return terms, nil
}

// ParseTerms reads terms typed as "Label|ID" pairs separated by ';'.
// It is the inverse of the literal managed metadata encoding.
func ParseTerms(s string) (Terms, error) {
	terms := Terms{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, "|")
		if i <= 0 || i == len(part)-1 {
			return nil, fmt.Errorf("%w: term %q, want Label|ID", ErrMalformedValue, part)
		}
		terms = append(terms, models.TermReference{
			Label: strings.TrimSpace(part[:i]),
			ID:    strings.TrimSpace(part[i+1:]),
		})
	}
	return terms, nil
}

// ParseYesNo reads a user-typed boolean.
func ParseYesNo(s string) (YesNo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: boolean %q", ErrMalformedValue, s)
	}
	return YesNo(b), nil
}
