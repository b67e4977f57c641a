// Package models defines the client-side data model of the page-property
// editor: field descriptors read from the host schema, property items being
// edited and the batch that groups them for one submission.
package models

import (
	"encoding/xml"
	"strings"
)

// FieldType is the closed set of field kinds the editor knows how to handle.
type FieldType int

const (
	FieldTypeUnsupported FieldType = iota
	FieldTypePlainText
	FieldTypeChoice
	FieldTypeMultiChoice
	FieldTypeNumber
	FieldTypeYesNo
	FieldTypeDateTime
	FieldTypeManagedMetadata
	FieldTypeMultiLineText
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeUnsupported:     "unsupported",
	FieldTypePlainText:       "text",
	FieldTypeChoice:          "choice",
	FieldTypeMultiChoice:     "multichoice",
	FieldTypeNumber:          "number",
	FieldTypeYesNo:           "yesno",
	FieldTypeDateTime:        "datetime",
	FieldTypeManagedMetadata: "taxonomy",
	FieldTypeMultiLineText:   "note",
}

func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "unsupported"
}

// ParseFieldType is the inverse of FieldType.String. Unknown names map to
// FieldTypeUnsupported.
func ParseFieldType(s string) FieldType {
	for t, name := range fieldTypeNames {
		if name == s {
			return t
		}
	}
	return FieldTypeUnsupported
}

// Host type names as reported by the fields endpoint.
const (
	TypeDisplaySingleLineText   = "Single line of text"
	TypeDisplayMultipleLineText = "Multiple lines of text"
	TypeDisplayChoice           = "Choice"
	TypeDisplayNumber           = "Number"
	TypeDisplayYesNo            = "Yes/No"
	TypeDisplayDateTime         = "Date and Time"
	TypeDisplayManagedMetadata  = "Managed Metadata"
	TypeDisplayComputed         = "Computed"
	TypeDisplayFile             = "File"

	TypeAsStringMultiChoice   = "MultiChoice"
	TypeAsStringTaxonomyMulti = "TaxonomyFieldTypeMulti"
)

// FieldDescriptor is the immutable metadata of one field.
type FieldDescriptor struct {
	ID           string
	InternalName string
	Title        string
	Type         FieldType
	TypeName     string

	// Choices holds the allowed option labels of Choice and MultiChoice fields.
	Choices []string
	// TermSetID identifies the term set of a ManagedMetadata field.
	TermSetID string
	// MultiValue is set for managed metadata fields accepting several terms.
	MultiValue bool

	Hidden         bool
	ReadOnly       bool
	ShowInEditForm bool
}

// Editable reports whether the field can be edited through the property
// editor. Hidden, read-only, computed and file fields are excluded, as well
// as fields the host does not show in its own edit form.
func (d FieldDescriptor) Editable() bool {
	if d.Hidden || d.ReadOnly || !d.ShowInEditForm {
		return false
	}
	switch d.TypeName {
	case TypeDisplayComputed, TypeDisplayFile:
		return false
	}
	return true
}

// HasChoice reports whether label is one of the field's options.
func (d FieldDescriptor) HasChoice(label string) bool {
	for _, c := range d.Choices {
		if c == label {
			return true
		}
	}
	return false
}

// FieldInfo is one entry of the host's fields collection.
type FieldInfo struct {
	ID              string   `json:"Id"`
	InternalName    string   `json:"InternalName"`
	Title           string   `json:"Title"`
	TypeDisplayName string   `json:"TypeDisplayName"`
	TypeAsString    string   `json:"TypeAsString"`
	Hidden          bool     `json:"Hidden"`
	ReadOnlyField   bool     `json:"ReadOnlyField"`
	SchemaXML       string   `json:"SchemaXml"`
	Choices         []string `json:"Choices,omitempty"`
}

// Descriptor maps the wire representation to a FieldDescriptor.
func (f FieldInfo) Descriptor() FieldDescriptor {
	d := FieldDescriptor{
		ID:             f.ID,
		InternalName:   f.InternalName,
		Title:          f.Title,
		TypeName:       f.TypeDisplayName,
		Hidden:         f.Hidden,
		ReadOnly:       f.ReadOnlyField,
		ShowInEditForm: !strings.Contains(f.SchemaXML, `ShowInEditForm="FALSE"`),
	}

	switch f.TypeDisplayName {
	case TypeDisplaySingleLineText:
		d.Type = FieldTypePlainText
	case TypeDisplayMultipleLineText:
		d.Type = FieldTypeMultiLineText
	case TypeDisplayChoice:
		d.Type = FieldTypeChoice
		if f.TypeAsString == TypeAsStringMultiChoice {
			d.Type = FieldTypeMultiChoice
		}
		d.Choices = append([]string(nil), f.Choices...)
	case TypeDisplayNumber:
		d.Type = FieldTypeNumber
	case TypeDisplayYesNo:
		d.Type = FieldTypeYesNo
	case TypeDisplayDateTime:
		d.Type = FieldTypeDateTime
	case TypeDisplayManagedMetadata:
		d.Type = FieldTypeManagedMetadata
		d.MultiValue = f.TypeAsString == TypeAsStringTaxonomyMulti
		d.TermSetID = TermSetIDFromSchema(f.SchemaXML)
	default:
		d.Type = FieldTypeUnsupported
	}

	return d
}

type schemaProperty struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type schemaField struct {
	Properties []schemaProperty `xml:"Customization>ArrayOfProperty>Property"`
}

// TermSetIDFromSchema extracts the TermSetId customization property from a
// field's schema XML. It returns "" when the schema has none or is malformed.
func TermSetIDFromSchema(schemaXML string) string {
	if schemaXML == "" {
		return ""
	}
	var f schemaField
	if err := xml.Unmarshal([]byte(schemaXML), &f); err != nil {
		return ""
	}
	for _, p := range f.Properties {
		if p.Name == "TermSetId" {
			return strings.TrimSpace(p.Value)
		}
	}
	return ""
}

// TermReference points at a single term of a managed term set.
type TermReference struct {
	ID    string `json:"TermID"`
	Label string `json:"Label"`
}
