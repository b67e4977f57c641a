package codec

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

// FormValue is one entry of a validate-update request.
type FormValue struct {
	FieldName  string `json:"FieldName"`
	FieldValue string `json:"FieldValue"`
}

// Submittable returns the decoded value of an item and whether the item
// takes part in a submission. Items without a value, items whose value
// decodes to nothing and multi-line text items are left out.
func Submittable(item *models.PropertyItem) (Value, bool) {
	if item.Field.Type == models.FieldTypeMultiLineText || item.Value == "" {
		return nil, false
	}
	// A malformed stored value decodes to the empty value and is skipped.
	v, _ := Decode(item.Field, item.Value)
	if v.IsEmpty() {
		return nil, false
	}
	return v, true
}

// FormValues builds the body entries of a validate-update request, with every
// value rendered in StringLiteral mode.
func FormValues(items []*models.PropertyItem) ([]FormValue, error) {
	out := make([]FormValue, 0, len(items))
	for _, item := range items {
		v, ok := Submittable(item)
		if !ok {
			continue
		}
		lit, err := Encode(item.Field, v, StringLiteral)
		if err != nil {
			return nil, err
		}
		var s string
		if err := json.Unmarshal(lit, &s); err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrEncode, item.Field.InternalName, err)
		}
		out = append(out, FormValue{FieldName: submitName(item), FieldValue: s})
	}
	return out, nil
}

// NativeObject builds the body of a direct item update, keyed by field name,
// with natively typed values.
func NativeObject(items []*models.PropertyItem) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(items))
	for _, item := range items {
		v, ok := Submittable(item)
		if !ok {
			continue
		}
		lit, err := Encode(item.Field, v, NativeTyped)
		if err != nil {
			return nil, err
		}
		out[submitName(item)] = lit
	}
	return out, nil
}

func submitName(item *models.PropertyItem) string {
	if item.SubmitName != "" {
		return item.SubmitName
	}
	return item.Field.InternalName
}
