package codec

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

func TestStatusRoundTrip(t *testing.T) {
	f := field("Status", models.FieldTypeYesNo)
	item := models.NewPropertyItem(f, `"Yes"`)

	v, err := Decode(f, item.Value)
	require.NoError(t, err)
	require.Equal(t, YesNo(true), v)

	stored, err := Stored(f, YesNo(false))
	require.NoError(t, err)
	assert.Equal(t, "No", stored)
	item.Value = stored

	values, err := FormValues([]*models.PropertyItem{item})
	require.NoError(t, err)

	body, err := json.Marshal(values)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"FieldName":"Status","FieldValue":"false"}]`, string(body))

	native, err := NativeObject([]*models.PropertyItem{item})
	require.NoError(t, err)
	assert.Equal(t, "false", string(native["Status"]))
}

func TestFormValues_Omission(t *testing.T) {
	items := []*models.PropertyItem{
		models.NewPropertyItem(field("Title", models.FieldTypePlainText), "Hello"),
		models.NewPropertyItem(field("Summary", models.FieldTypeMultiLineText), "long text"),
		models.NewPropertyItem(field("Owner", models.FieldTypePlainText), ""),
		models.NewPropertyItem(field("Colors", models.FieldTypeMultiChoice), "[]"),
		models.NewPropertyItem(field("Due", models.FieldTypeDateTime), "not a date"),
		models.NewPropertyItem(field("Tags", models.FieldTypeMultiChoice), `["Red","Blue"]`),
	}

	values, err := FormValues(items)
	require.NoError(t, err)

	want := []FormValue{
		{FieldName: "Title", FieldValue: "Hello"},
		{FieldName: "Tags", FieldValue: "Red;#Blue"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("FormValues mismatch (-want +got):\n%s", diff)
	}

	native, err := NativeObject(items)
	require.NoError(t, err)
	require.Len(t, native, 2)
	assert.Equal(t, `"Hello"`, string(native["Title"]))
	assert.Equal(t, `["Red","Blue"]`, string(native["Tags"]))
	assert.NotContains(t, native, "Summary")
}

func TestFormValues_SubmitName(t *testing.T) {
	f := field("Topic", models.FieldTypeManagedMetadata)
	item := models.NewPropertyItem(f, `{"TermID":"5f0c","Label":"Finance"}`)
	item.SubmitName = "Topic_0"

	values, err := FormValues([]*models.PropertyItem{item})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, FormValue{FieldName: "Topic_0", FieldValue: "Finance|5f0c"}, values[0])
}

func TestFormValues_EmptyBatch(t *testing.T) {
	values, err := FormValues(nil)
	require.NoError(t, err)
	assert.Empty(t, values)

	native, err := NativeObject(nil)
	require.NoError(t, err)
	assert.Empty(t, native)
}

func TestNativeObject_EncodeError(t *testing.T) {
	items := []*models.PropertyItem{
		models.NewPropertyItem(field("Count", models.FieldTypeNumber), "twelve"),
	}

	_, err := NativeObject(items)
	require.ErrorIs(t, err, ErrEncode)

	// The literal transport passes numbers through untouched.
	values, err := FormValues(items)
	require.NoError(t, err)
	assert.Equal(t, []FormValue{{FieldName: "Count", FieldValue: "twelve"}}, values)
}

func TestSubmittable(t *testing.T) {
	tests := []struct {
		name  string
		item  *models.PropertyItem
		want  Value
		wantK bool
	}{
		{"yes no false is kept", models.NewPropertyItem(field("Status", models.FieldTypeYesNo), "No"), YesNo(false), true},
		{"empty string", models.NewPropertyItem(field("Title", models.FieldTypePlainText), ""), nil, false},
		{"note", models.NewPropertyItem(field("Body", models.FieldTypeMultiLineText), "x"), nil, false},
		{"malformed choices", models.NewPropertyItem(field("Colors", models.FieldTypeMultiChoice), "Red"), nil, false},
		{"choice", models.NewPropertyItem(field("Color", models.FieldTypeChoice), "Red"), Text("Red"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Submittable(tt.item)
			assert.Equal(t, tt.wantK, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}
