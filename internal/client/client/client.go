package client

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/codec"
)

// Row is one list item as rendered by the host: field internal name to value.
type Row map[string]any

// UpdateRequest is the body of a validate-update call.
type UpdateRequest struct {
	FormValues         []codec.FormValue `json:"formValues"`
	BNewDocumentUpdate bool              `json:"bNewDocumentUpdate"`
	CheckInComment     *string           `json:"checkInComment"`
	SharedLockID       string            `json:"sharedLockId,omitempty"`
	DatesInUTC         bool              `json:"datesInUTC"`
}

// NewUpdateRequest wraps form values with the defaults used for page edits.
func NewUpdateRequest(values []codec.FormValue, sharedLockID string) UpdateRequest {
	return UpdateRequest{
		FormValues:   values,
		SharedLockID: sharedLockID,
		DatesInUTC:   true,
	}
}

// UpdateResult is the per-field outcome reported by a validate-update call.
type UpdateResult struct {
	ErrorCode    int    `json:"ErrorCode"`
	ErrorMessage string `json:"ErrorMessage"`
	FieldName    string `json:"FieldName"`
	FieldValue   string `json:"FieldValue"`
	HasException bool   `json:"HasException"`
	ItemID       int    `json:"ItemId"`
}

// Client is the remote content store contract used by the services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// ListID resolves a list title to its identifier.
	ListID(ctx context.Context, listTitle string) (string, error)
	// Fields returns the list schema in host order.
	Fields(ctx context.Context, listTitle string) ([]models.FieldInfo, error)
	// CurrentValues returns the raw values of one item; an empty Row when
	// the item does not exist.
	CurrentValues(ctx context.Context, listTitle string, itemID int) (Row, error)

	// ValidateUpdate submits string-literal form values in one request.
	ValidateUpdate(ctx context.Context, listID string, itemID int, req UpdateRequest) ([]UpdateResult, error)
	// UpdateItem submits natively typed values in one request.
	UpdateItem(ctx context.Context, listID string, itemID int, values map[string]json.RawMessage) error
}
