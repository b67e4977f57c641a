package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/common"
)

// Session is the edit state of one page: a batch of property items and its
// lifecycle. Every edit replaces the value of exactly one item.
//
// A Session is not safe for concurrent use.
type Session struct {
	batch *models.Batch
	// fromDraft is set once the batch has been persisted as a draft.
	fromDraft bool
}

func newSession(b *models.Batch, fromDraft bool) *Session {
	return &Session{batch: b, fromDraft: fromDraft}
}

// ID returns the batch identifier, which is also the draft id.
func (s *Session) ID() string { return s.batch.ID }

// State returns the lifecycle state of the batch.
func (s *Session) State() models.BatchState { return s.batch.State }

// ItemID returns the id of the page item being edited.
func (s *Session) ItemID() int { return s.batch.ItemID }

// Items returns the property items in schema order.
func (s *Session) Items() []*models.PropertyItem { return s.batch.Items }

// Item returns the item for a field internal name.
func (s *Session) Item(name string) (*models.PropertyItem, error) {
	if it := s.batch.Find(name); it != nil {
		return it, nil
	}
	return nil, fmt.Errorf("field %q: %w", name, common.ErrorNotFound)
}

// Value returns the decoded value of a field.
func (s *Session) Value(name string) (codec.Value, error) {
	it, err := s.Item(name)
	if err != nil {
		return nil, err
	}
	v, _ := codec.Decode(it.Field, it.Value)
	return v, nil
}

func (s *Session) store(it *models.PropertyItem, v codec.Value) error {
	stored, err := codec.Stored(it.Field, v)
	if err != nil {
		return fmt.Errorf("field %q: %w", it.Name(), err)
	}
	it.Value = stored
	s.batch.State = models.BatchEdited
	s.batch.UpdatedAt = time.Now().UTC()
	return nil
}

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("field %q: %s: %w", name, fmt.Sprintf(format, args...), common.ErrorValidation)
}

// Set replaces a field's value with text typed by the user. The text is
// parsed according to the field type:
//
//   - yes/no: yes, no, true, false
//   - multi-choice: a JSON array or labels separated by ';'
//   - date: any layout accepted by codec.ParseDate
//   - managed metadata: a JSON term object/array or Label|ID pairs
//   - number: a decimal number
//   - choice: one of the field's options
//
// An empty string clears the value. Yes/No fields have no empty state and
// are reset to No instead.
func (s *Session) Set(name, raw string) error {
	it, err := s.Item(name)
	if err != nil {
		return err
	}
	f := it.Field
	raw = strings.TrimSpace(raw)

	switch f.Type {
	case models.FieldTypeYesNo:
		if raw == "" {
			return s.store(it, codec.YesNo(false))
		}
		b, err := codec.ParseYesNo(raw)
		if err != nil {
			return invalid(name, "%v", err)
		}
		return s.store(it, b)

	case models.FieldTypeMultiChoice:
		labels, err := parseLabels(raw)
		if err != nil {
			return invalid(name, "%v", err)
		}
		for _, l := range labels {
			if !f.HasChoice(l) {
				return invalid(name, "%q is not an option", l)
			}
		}
		return s.store(it, codec.Choices(labels))

	case models.FieldTypeDateTime:
		if raw == "" {
			return s.store(it, codec.DateTime{})
		}
		t, err := codec.ParseDate(raw)
		if err != nil {
			return invalid(name, "%v", err)
		}
		return s.store(it, codec.DateTime{At: t})

	case models.FieldTypeManagedMetadata:
		terms, err := parseTerms(f, raw)
		if err != nil {
			return invalid(name, "%v", err)
		}
		return s.SetTerms(name, terms)

	case models.FieldTypeNumber:
		if raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return invalid(name, "%q is not a number", raw)
			}
		}
		return s.store(it, codec.Text(raw))

	case models.FieldTypeChoice:
		if raw != "" && len(f.Choices) > 0 && !f.HasChoice(raw) {
			return invalid(name, "%q is not an option", raw)
		}
		return s.store(it, codec.Text(raw))

	default:
		return s.store(it, codec.Text(raw))
	}
}

func parseLabels(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var labels []string
		if err := json.Unmarshal([]byte(raw), &labels); err != nil {
			return nil, fmt.Errorf("%w: %v", codec.ErrMalformedValue, err)
		}
		return labels, nil
	}
	labels := []string{}
	for _, l := range strings.Split(raw, ";") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

func parseTerms(f models.FieldDescriptor, raw string) (codec.Terms, error) {
	if raw == "" {
		return codec.Terms{}, nil
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		v, err := codec.Decode(f, raw)
		if err != nil {
			return nil, err
		}
		return v.(codec.Terms), nil
	}
	return codec.ParseTerms(raw)
}

func (s *Session) typed(name string, want models.FieldType) (*models.PropertyItem, error) {
	it, err := s.Item(name)
	if err != nil {
		return nil, err
	}
	if it.Field.Type != want {
		return nil, invalid(name, "is a %s field, not %s", it.Field.Type, want)
	}
	return it, nil
}

// SetYesNo sets a yes/no field.
func (s *Session) SetYesNo(name string, v bool) error {
	it, err := s.typed(name, models.FieldTypeYesNo)
	if err != nil {
		return err
	}
	return s.store(it, codec.YesNo(v))
}

// SetDate sets a date field. The zero time clears it.
func (s *Session) SetDate(name string, t time.Time) error {
	it, err := s.typed(name, models.FieldTypeDateTime)
	if err != nil {
		return err
	}
	return s.store(it, codec.DateTime{At: t})
}

// SetTerms replaces the terms of a managed metadata field. A single-valued
// field accepts at most one term.
func (s *Session) SetTerms(name string, terms []models.TermReference) error {
	it, err := s.typed(name, models.FieldTypeManagedMetadata)
	if err != nil {
		return err
	}
	if !it.Field.MultiValue && len(terms) > 1 {
		return invalid(name, "accepts a single term, got %d", len(terms))
	}
	for _, t := range terms {
		if t.ID == "" {
			return invalid(name, "term %q has no id", t.Label)
		}
	}
	return s.store(it, codec.Terms(terms))
}

// ToggleChoice adds or removes one label of a multi-choice field. For any
// other field type the label replaces the value.
func (s *Session) ToggleChoice(name, label string, add bool) error {
	it, err := s.Item(name)
	if err != nil {
		return err
	}
	if it.Field.Type != models.FieldTypeMultiChoice {
		return s.Set(name, label)
	}
	if !it.Field.HasChoice(label) {
		return invalid(name, "%q is not an option", label)
	}

	v, _ := codec.Decode(it.Field, it.Value)
	current := v.(codec.Choices)
	if add {
		return s.store(it, current.With(label))
	}
	return s.store(it, current.Without(label))
}
