package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	FieldsRet []models.FieldInfo
	FieldsErr error

	RowRet client.Row
	RowErr error

	ListIDRet   string
	ListIDErr   error
	ListIDCalls int

	ValidateRet []client.UpdateResult
	ValidateErr error
	UpdateErr   error
	PingErr     error

	ValidateCalls []client.UpdateRequest
	UpdateCalls   []map[string]json.RawMessage
	LastListID    string
	LastItemID    int
	Closed        bool
}

func (f *fakeClient) Close() error { f.Closed = true; return nil }

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) ListID(context.Context, string) (string, error) {
	f.ListIDCalls++
	return f.ListIDRet, f.ListIDErr
}

func (f *fakeClient) Fields(context.Context, string) ([]models.FieldInfo, error) {
	return f.FieldsRet, f.FieldsErr
}

func (f *fakeClient) CurrentValues(context.Context, string, int) (client.Row, error) {
	return f.RowRet, f.RowErr
}

func (f *fakeClient) ValidateUpdate(_ context.Context, listID string, itemID int, req client.UpdateRequest) ([]client.UpdateResult, error) {
	f.ValidateCalls = append(f.ValidateCalls, req)
	f.LastListID, f.LastItemID = listID, itemID
	return f.ValidateRet, f.ValidateErr
}

func (f *fakeClient) UpdateItem(_ context.Context, listID string, itemID int, values map[string]json.RawMessage) error {
	f.UpdateCalls = append(f.UpdateCalls, values)
	f.LastListID, f.LastItemID = listID, itemID
	return f.UpdateErr
}

func (f *fakeClient) requests() int { return len(f.ValidateCalls) + len(f.UpdateCalls) }

var _ client.Client = (*fakeClient)(nil)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

const (
	testListID = "0b1a9e3c-1111-2222-3333-444455556666"
	termSchema = `<Field Type="TaxonomyFieldType"><Customization><ArrayOfProperty>` +
		`<Property><Name>TermSetId</Name><Value>ts-1</Value></Property>` +
		`</ArrayOfProperty></Customization></Field>`
)

// pageFields is a typical pages list schema, including fields that must not
// become editable items.
func pageFields() []models.FieldInfo {
	return []models.FieldInfo{
		{ID: "1", InternalName: "Title", Title: "Title", TypeDisplayName: models.TypeDisplaySingleLineText},
		{ID: "2", InternalName: "Status", Title: "Status", TypeDisplayName: models.TypeDisplayYesNo},
		{ID: "3", InternalName: "Colors", Title: "Colors", TypeDisplayName: models.TypeDisplayChoice,
			TypeAsString: models.TypeAsStringMultiChoice, Choices: []string{"Red", "Green", "Blue"}},
		{ID: "4", InternalName: "Priority", Title: "Priority", TypeDisplayName: models.TypeDisplayNumber},
		{ID: "5", InternalName: "Due", Title: "Due", TypeDisplayName: models.TypeDisplayDateTime},
		{ID: "6", InternalName: "Topic", Title: "Topic", TypeDisplayName: models.TypeDisplayManagedMetadata,
			TypeAsString: "TaxonomyFieldType", SchemaXML: termSchema},
		{ID: "7", InternalName: "f6a1b2", Title: "Topic_0", TypeDisplayName: "Multiple lines of text", Hidden: true},
		{ID: "8", InternalName: "Body", Title: "Body", TypeDisplayName: models.TypeDisplayMultipleLineText},
		{ID: "9", InternalName: "Modified", Title: "Modified", TypeDisplayName: models.TypeDisplayDateTime, ReadOnlyField: true},
		{ID: "10", InternalName: "DocIcon", Title: "Type", TypeDisplayName: models.TypeDisplayComputed},
		{ID: "11", InternalName: "Secret", Title: "Secret", TypeDisplayName: models.TypeDisplaySingleLineText,
			SchemaXML: `<Field ShowInEditForm="FALSE" />`},
		{ID: "12", InternalName: "Kind", Title: "Kind", TypeDisplayName: models.TypeDisplayChoice, Choices: []string{"News", "Event"}},
	}
}

func pageRow() client.Row {
	return client.Row{
		"ID":       "7",
		"Title":    "Hello",
		"Status":   `"Yes"`,
		"Colors":   []any{"Red", "Blue"},
		"Priority": json.Number("3"),
		"Due":      "2025-03-01T10:00:00Z",
		"Topic":    map[string]any{"TermID": "42", "Label": "Region"},
		"Body":     "<p>long</p>",
		"Kind":     "News",
	}
}

func newTestService(t *testing.T, fc *fakeClient, target Target) (*propertyService, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	if target.ListTitle == "" {
		target.ListTitle = "Site Pages"
	}
	if target.ItemID == 0 {
		target.ItemID = 7
	}
	if target.SiteURL == "" {
		target.SiteURL = "https://contoso/sites/news"
	}
	svc := NewPropertyService(fc, db, target, logging.Discard())
	return svc.(*propertyService), db
}

func loadedSession(t *testing.T, svc *propertyService) *Session {
	t.Helper()
	s, err := svc.Load(context.Background())
	require.NoError(t, err)
	return s
}
