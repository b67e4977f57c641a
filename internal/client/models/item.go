package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyItem is the editable state of one field.
//
// Value is always string-encoded regardless of the field's logical type:
// numbers, booleans ("Yes"/"No") and dates as text, collections as JSON.
// An empty Value means "no value".
type PropertyItem struct {
	Field FieldDescriptor
	Value string

	// SubmitName is the field name used in update payloads. It differs from
	// Field.InternalName only for managed metadata, which is written through
	// its hidden companion field.
	SubmitName string
}

// NewPropertyItem creates an item submitted under the field's own name.
func NewPropertyItem(field FieldDescriptor, value string) *PropertyItem {
	return &PropertyItem{Field: field, Value: value, SubmitName: field.InternalName}
}

// Name returns the field's internal name, the key edits are addressed by.
func (p *PropertyItem) Name() string {
	return p.Field.InternalName
}

// BatchState tracks the lifecycle of a batch of property items.
type BatchState string

const (
	BatchUnedited  BatchState = "unedited"
	BatchEdited    BatchState = "edited"
	BatchSubmitted BatchState = "submitted"
	BatchSucceeded BatchState = "succeeded"
	BatchFailed    BatchState = "failed"
)

// Resubmittable reports whether a batch in this state may be submitted.
func (s BatchState) Resubmittable() bool {
	return s != BatchSubmitted && s != BatchSucceeded
}

// Batch is the ordered set of property items edited and submitted together.
type Batch struct {
	ID        string
	ListID    string
	ItemID    int
	State     BatchState
	Items     []*PropertyItem
	UpdatedAt time.Time
}

// NewBatch creates an unedited batch with a fresh identifier.
func NewBatch(listID string, itemID int, items []*PropertyItem) *Batch {
	return &Batch{
		ID:        uuid.NewString(),
		ListID:    listID,
		ItemID:    itemID,
		State:     BatchUnedited,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
}

// Find returns the item for the given internal name, or nil.
func (b *Batch) Find(name string) *PropertyItem {
	for _, it := range b.Items {
		if it.Name() == name {
			return it
		}
	}
	return nil
}

// Snapshot returns a deep copy of the items, detached from later edits.
func (b *Batch) Snapshot() []*PropertyItem {
	out := make([]*PropertyItem, 0, len(b.Items))
	for _, it := range b.Items {
		cp := *it
		cp.Field.Choices = append([]string(nil), it.Field.Choices...)
		out = append(out, &cp)
	}
	return out
}
