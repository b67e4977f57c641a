package codec

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

// Stored renders an editable value back into the string form kept in
// models.PropertyItem.Value. Decode(field, Stored(field, v)) yields v.
func Stored(field models.FieldDescriptor, v Value) (string, error) {
	switch field.Type {
	case models.FieldTypeYesNo:
		b, ok := v.(YesNo)
		if !ok {
			return "", mismatch(field, v)
		}
		return b.String(), nil

	case models.FieldTypeMultiChoice:
		c, ok := v.(Choices)
		if !ok {
			return "", mismatch(field, v)
		}
		if c == nil {
			c = Choices{}
		}
		b, err := json.Marshal([]string(c))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncode, err)
		}
		return string(b), nil

	case models.FieldTypeDateTime:
		d, ok := v.(DateTime)
		if !ok {
			return "", mismatch(field, v)
		}
		if d.IsEmpty() {
			return "", nil
		}
		return d.At.UTC().Format(time.RFC3339Nano), nil

	case models.FieldTypeManagedMetadata:
		t, ok := v.(Terms)
		if !ok {
			return "", mismatch(field, v)
		}
		if len(t) == 0 {
			return "", nil
		}
		var (
			b   []byte
			err error
		)
		if field.MultiValue {
			b, err = json.Marshal([]models.TermReference(t))
		} else {
			b, err = json.Marshal(t[0])
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncode, err)
		}
		return string(b), nil

	default:
		t, ok := v.(Text)
		if !ok {
			return "", mismatch(field, v)
		}
		return string(t), nil
	}
}
