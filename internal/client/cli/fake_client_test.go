package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/client/services"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

// fakeClient implements client.Client for CLI tests.
type fakeClient struct {
	mu      sync.Mutex
	pingErr error

	FieldsErr error

	ValidateRet []client.UpdateResult
	ValidateErr error

	ValidateCalls []client.UpdateRequest
	UpdateCalls   []map[string]json.RawMessage
	Closed        bool
}

func (f *fakeClient) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeClient) Close() error { f.Closed = true; return nil }

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeClient) ListID(context.Context, string) (string, error) {
	return "0b1a9e3c-1111-2222-3333-444455556666", nil
}

func (f *fakeClient) Fields(context.Context, string) ([]models.FieldInfo, error) {
	if f.FieldsErr != nil {
		return nil, f.FieldsErr
	}
	return []models.FieldInfo{
		{ID: "1", InternalName: "Title", Title: "Title", TypeDisplayName: models.TypeDisplaySingleLineText},
		{ID: "2", InternalName: "Status", Title: "Status", TypeDisplayName: models.TypeDisplayYesNo},
		{ID: "3", InternalName: "Colors", Title: "Colors", TypeDisplayName: models.TypeDisplayChoice,
			TypeAsString: models.TypeAsStringMultiChoice, Choices: []string{"Red", "Green", "Blue"}},
		{ID: "4", InternalName: "Priority", Title: "Priority", TypeDisplayName: models.TypeDisplayNumber},
		{ID: "5", InternalName: "Due", Title: "Due date", TypeDisplayName: models.TypeDisplayDateTime},
		{ID: "6", InternalName: "Topic", Title: "Topic", TypeDisplayName: models.TypeDisplayManagedMetadata,
			TypeAsString: "TaxonomyFieldType", SchemaXML: `<Field><Customization><ArrayOfProperty>` +
				`<Property><Name>TermSetId</Name><Value>ts-1</Value></Property>` +
				`</ArrayOfProperty></Customization></Field>`},
		{ID: "7", InternalName: "f6a1b2", Title: "Topic_0", TypeDisplayName: models.TypeDisplayMultipleLineText, Hidden: true},
		{ID: "8", InternalName: "Body", Title: "Body", TypeDisplayName: models.TypeDisplayMultipleLineText},
	}, nil
}

func (f *fakeClient) CurrentValues(context.Context, string, int) (client.Row, error) {
	return client.Row{
		"ID":       "7",
		"Title":    "Hello",
		"Status":   "Yes",
		"Colors":   []any{"Red", "Blue"},
		"Priority": json.Number("3"),
		"Topic":    map[string]any{"TermID": "42", "Label": "Region"},
		"Body":     "first line\nsecond line",
	}, nil
}

func (f *fakeClient) ValidateUpdate(_ context.Context, _ string, _ int, req client.UpdateRequest) ([]client.UpdateResult, error) {
	f.ValidateCalls = append(f.ValidateCalls, req)
	return f.ValidateRet, f.ValidateErr
}

func (f *fakeClient) UpdateItem(_ context.Context, _ string, _ int, values map[string]json.RawMessage) error {
	f.UpdateCalls = append(f.UpdateCalls, values)
	return nil
}

var _ client.Client = (*fakeClient)(nil)

func newTestService(t *testing.T, fc *fakeClient) services.PropertyService {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return services.NewPropertyService(fc, db, services.Target{
		SiteURL:   "https://contoso/sites/news",
		ListTitle: "Site Pages",
		ItemID:    7,
	}, logging.Discard())
}

// newTestApp returns an App with the page already loaded. input feeds the
// interactive prompts of the commands under test.
func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	app := NewApp(newTestService(t, fc), logging.Discard(), Options{
		Mode: codec.StringLiteral,
		In:   strings.NewReader(input),
		Out:  out,
	})
	require.NoError(t, app.load(context.Background()))
	out.Reset()
	return app, out
}
