package drafts

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("drafts: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("drafts: CBOR decoder initialization failed: " + err.Error())
	}
}

// fieldRecord is the stored form of a models.FieldDescriptor. Integer keys
// keep the blob small and stable across Go field renames.
type fieldRecord struct {
	ID             string   `cbor:"1,keyasint,omitempty"`
	InternalName   string   `cbor:"2,keyasint"`
	Title          string   `cbor:"3,keyasint,omitempty"`
	Type           string   `cbor:"4,keyasint"`
	TypeName       string   `cbor:"5,keyasint,omitempty"`
	Choices        []string `cbor:"6,keyasint,omitempty"`
	TermSetID      string   `cbor:"7,keyasint,omitempty"`
	MultiValue     bool     `cbor:"8,keyasint,omitempty"`
	ShowInEditForm bool     `cbor:"9,keyasint,omitempty"`
}

type itemRecord struct {
	Field      fieldRecord `cbor:"1,keyasint"`
	Value      string      `cbor:"2,keyasint"`
	SubmitName string      `cbor:"3,keyasint,omitempty"`
}

// encodeItems serializes batch items. Only editable fields ever reach a
// batch, so the hidden and read-only flags are not stored.
func encodeItems(items []*models.PropertyItem) ([]byte, error) {
	recs := make([]itemRecord, 0, len(items))
	for _, it := range items {
		f := it.Field
		recs = append(recs, itemRecord{
			Field: fieldRecord{
				ID:             f.ID,
				InternalName:   f.InternalName,
				Title:          f.Title,
				Type:           f.Type.String(),
				TypeName:       f.TypeName,
				Choices:        f.Choices,
				TermSetID:      f.TermSetID,
				MultiValue:     f.MultiValue,
				ShowInEditForm: f.ShowInEditForm,
			},
			Value:      it.Value,
			SubmitName: it.SubmitName,
		})
	}
	b, err := encMode.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft items: %w", err)
	}
	return b, nil
}

func decodeItems(data []byte) ([]*models.PropertyItem, error) {
	var recs []itemRecord
	if err := decMode.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode draft items: %w", err)
	}
	items := make([]*models.PropertyItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, &models.PropertyItem{
			Field: models.FieldDescriptor{
				ID:             r.Field.ID,
				InternalName:   r.Field.InternalName,
				Title:          r.Field.Title,
				Type:           models.ParseFieldType(r.Field.Type),
				TypeName:       r.Field.TypeName,
				Choices:        r.Field.Choices,
				TermSetID:      r.Field.TermSetID,
				MultiValue:     r.Field.MultiValue,
				ShowInEditForm: r.Field.ShowInEditForm,
			},
			Value:      r.Value,
			SubmitName: r.SubmitName,
		})
	}
	return items, nil
}
