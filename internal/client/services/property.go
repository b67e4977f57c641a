// Package services contains application services for the pageprops client.
// This file defines the property service: loading the editable properties of
// one page, submitting an edited batch and keeping drafts in the local store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/pageprops/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/common"
	"github.com/dmitrijs2005/pageprops/internal/dbx"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

// companionSuffix names the hidden text field through which a managed
// metadata field is written: "<Title>_0".
const companionSuffix = "_0"

// PropertyService defines page-property operations for the CLI.
//
// Contract:
//   - Load: read the schema and current values of the target page.
//   - Submit: send the whole batch in one request, in the given mode.
//   - Preview: render the request body Submit would send.
//   - SaveDraft/LoadDraft/ListDrafts/DeleteDraft: local drafts of unsent batches.
//   - Settings/ClearListCache: inspect and reset locally cached site settings.
//   - Ping: check that the site answers.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type PropertyService interface {
	Load(ctx context.Context) (*Session, error)
	Submit(ctx context.Context, s *Session, mode codec.TransportMode) (*SubmitResult, error)
	Preview(ctx context.Context, s *Session, mode codec.TransportMode) ([]byte, error)

	SaveDraft(ctx context.Context, s *Session) error
	LoadDraft(ctx context.Context, id string) (*Session, error)
	ListDrafts(ctx context.Context) ([]*models.Batch, error)
	DeleteDraft(ctx context.Context, id string) error

	Settings(ctx context.Context) ([]metadata.Entry, error)
	ClearListCache(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Target identifies the page being edited.
type Target struct {
	SiteURL   string
	ListTitle string
	// ListID is resolved from ListTitle when empty.
	ListID       string
	ItemID       int
	SharedLockID string
}

// SubmitResult describes a successful submission.
type SubmitResult struct {
	Mode codec.TransportMode
	// Fields lists the names sent in the payload, in item order.
	Fields []string
	// Results holds the per-field outcome of a validate-update call.
	Results []client.UpdateResult
}

// propertyService is the concrete PropertyService backed by a remote Client
// and the local SQL database for drafts and settings.
type propertyService struct {
	client client.Client
	db     *sql.DB
	target Target
	log    logging.Logger
}

// NewPropertyService constructs a PropertyService for one page.
func NewPropertyService(c client.Client, db *sql.DB, target Target, log logging.Logger) PropertyService {
	return &propertyService{
		client: c,
		db:     db,
		target: target,
		log:    log.With("list", target.ListTitle, "item", target.ItemID),
	}
}

func (p *propertyService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(p.db)
}

func (p *propertyService) getDraftsRepo() drafts.Repository {
	return drafts.NewSQLiteRepository(p.db)
}

// listIDTTL bounds how long a looked-up list id is trusted.
const listIDTTL = 24 * time.Hour

// listID returns the configured list id, then a fresh cached one, then asks
// the host and caches the answer.
func (p *propertyService) listID(ctx context.Context) (string, error) {
	if p.target.ListID != "" {
		return p.target.ListID, nil
	}

	repo := p.getMetadataRepo()
	key := metadata.ListIDKey(p.target.SiteURL, p.target.ListTitle)
	cached, err := repo.Get(ctx, key)
	switch {
	case err == nil && len(cached.Value) > 0 && cached.Fresh(time.Now(), listIDTTL):
		return cached.String(), nil
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		p.log.Warn(ctx, "reading cached list id failed", "error", err)
	}

	id, err := p.client.ListID(ctx, p.target.ListTitle)
	if err != nil {
		return "", fmt.Errorf("resolving list id: %w", err)
	}
	if err := repo.SetString(ctx, key, id); err != nil {
		p.log.Warn(ctx, "caching list id failed", "error", err)
	}
	return id, nil
}

// forgetListID drops a cached list id the host no longer recognises.
func (p *propertyService) forgetListID(ctx context.Context) {
	if p.target.ListID != "" {
		return
	}
	key := metadata.ListIDKey(p.target.SiteURL, p.target.ListTitle)
	if err := p.getMetadataRepo().Delete(ctx, key); err != nil {
		p.log.Warn(ctx, "forgetting list id failed", "error", err)
	}
}

// sharedLockID returns the configured co-authoring lock, falling back to
// the one stored in the metadata repository.
func (p *propertyService) sharedLockID(ctx context.Context) string {
	if p.target.SharedLockID != "" {
		return p.target.SharedLockID
	}
	id, err := p.getMetadataRepo().GetString(ctx, metadata.KeySharedLockID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		p.log.Warn(ctx, "reading shared lock id failed", "error", err)
	}
	return id
}

// Load reads the list schema and the item's current values and builds an
// unedited session with one item per editable field, in schema order.
func (p *propertyService) Load(ctx context.Context) (*Session, error) {
	listID, err := p.listID(ctx)
	if err != nil {
		return nil, err
	}

	infos, err := p.client.Fields(ctx, p.target.ListTitle)
	if err != nil {
		return nil, fmt.Errorf("reading fields: %w", err)
	}
	row, err := p.client.CurrentValues(ctx, p.target.ListTitle, p.target.ItemID)
	if err != nil {
		return nil, fmt.Errorf("reading item values: %w", err)
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("item %d: %w", p.target.ItemID, common.ErrorNotFound)
	}

	byTitle := make(map[string]models.FieldInfo, len(infos))
	for _, info := range infos {
		byTitle[info.Title] = info
	}

	items := make([]*models.PropertyItem, 0, len(infos))
	for _, info := range infos {
		d := info.Descriptor()
		if !d.Editable() {
			continue
		}

		item := models.NewPropertyItem(d, rowValue(row, d))
		if d.Type == models.FieldTypeManagedMetadata {
			if companion, ok := byTitle[d.Title+companionSuffix]; ok {
				item.SubmitName = companion.InternalName
			} else {
				p.log.Warn(ctx, "no companion field for managed metadata", "field", d.InternalName)
			}
		}
		if _, err := codec.Decode(d, item.Value); err != nil {
			p.log.Warn(ctx, "stored value is malformed", "field", d.InternalName, "error", err)
		}
		items = append(items, item)
	}

	p.log.Debug(ctx, "item loaded", "fields", len(items))
	return newSession(models.NewBatch(listID, p.target.ItemID, items), false), nil
}

// rawColumnSuffix names the unformatted twin the host adds next to number
// and date columns: "Due." holds ISO UTC while "Due" holds the site's
// localized rendering.
const rawColumnSuffix = "."

// rowValue prefers the unformatted column for numbers and dates.
func rowValue(row client.Row, d models.FieldDescriptor) string {
	switch d.Type {
	case models.FieldTypeNumber, models.FieldTypeDateTime:
		if raw := stringValue(row[d.InternalName+rawColumnSuffix]); raw != "" {
			return raw
		}
	}
	return stringValue(row[d.InternalName])
}

// stringValue renders a row value in the stored string form. Strings pass
// through; booleans become Yes/No; everything else is JSON.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return codec.YesNo(x).String()
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

type payload struct {
	fields  []string
	literal *client.UpdateRequest
	native  map[string]json.RawMessage
}

func (p *propertyService) build(ctx context.Context, items []*models.PropertyItem, mode codec.TransportMode) (*payload, error) {
	switch mode {
	case codec.StringLiteral:
		values, err := codec.FormValues(items)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, ErrNothingToSubmit
		}
		req := client.NewUpdateRequest(values, p.sharedLockID(ctx))
		fields := make([]string, 0, len(values))
		for _, v := range values {
			fields = append(fields, v.FieldName)
		}
		return &payload{fields: fields, literal: &req}, nil

	case codec.NativeTyped:
		values, err := codec.NativeObject(items)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, ErrNothingToSubmit
		}
		fields := make([]string, 0, len(values))
		for _, it := range items {
			name := it.SubmitName
			if name == "" {
				name = it.Name()
			}
			if _, ok := values[name]; ok {
				fields = append(fields, name)
			}
		}
		return &payload{fields: fields, native: values}, nil
	}
	return nil, fmt.Errorf("mode %s: %w", mode, common.ErrorValidation)
}

// Preview renders the request body Submit would send, indented.
func (p *propertyService) Preview(ctx context.Context, s *Session, mode codec.TransportMode) ([]byte, error) {
	pl, err := p.build(ctx, s.batch.Snapshot(), mode)
	if err != nil {
		return nil, err
	}
	if pl.literal != nil {
		return json.MarshalIndent(pl.literal, "", "  ")
	}
	return json.MarshalIndent(pl.native, "", "  ")
}

// Submit sends every submittable item of the session in exactly one request.
// Payload build errors leave the session untouched. A failed request moves
// the batch to Failed; it can be edited and submitted again.
func (p *propertyService) Submit(ctx context.Context, s *Session, mode codec.TransportMode) (*SubmitResult, error) {
	if !s.batch.State.Resubmittable() {
		return nil, ErrAlreadySubmitted
	}

	pl, err := p.build(ctx, s.batch.Snapshot(), mode)
	if err != nil {
		return nil, err
	}

	s.batch.State = models.BatchSubmitted
	log := p.log.With("batch", s.batch.ID, "mode", mode.String())
	log.Info(ctx, "submitting", "fields", len(pl.fields))

	res := &SubmitResult{Mode: mode, Fields: pl.fields}
	if pl.literal != nil {
		res.Results, err = p.client.ValidateUpdate(ctx, s.batch.ListID, s.batch.ItemID, *pl.literal)
	} else {
		err = p.client.UpdateItem(ctx, s.batch.ListID, s.batch.ItemID, pl.native)
	}
	s.batch.UpdatedAt = time.Now().UTC()

	if err != nil {
		s.batch.State = models.BatchFailed
		var remote *client.RemoteError
		if errors.As(err, &remote) {
			log.Error(ctx, "submit failed", "status", remote.StatusCode, "code", remote.Code, "message", remote.Message, "body", remote.Body)
		} else {
			log.Error(ctx, "submit failed", "error", err)
		}
		if errors.Is(err, common.ErrorNotFound) {
			p.forgetListID(ctx)
		}
		return nil, fmt.Errorf("submit: %w", err)
	}

	s.batch.State = models.BatchSucceeded
	log.Info(ctx, "submitted")

	if s.fromDraft {
		if err := p.getDraftsRepo().Delete(ctx, s.batch.ID); err != nil {
			log.Warn(ctx, "deleting submitted draft failed", "error", err)
		} else {
			s.fromDraft = false
		}
	}
	return res, nil
}

// SaveDraft stores the session as the only draft of its page item.
func (p *propertyService) SaveDraft(ctx context.Context, s *Session) error {
	b := *s.batch
	b.Items = s.batch.Snapshot()
	b.UpdatedAt = time.Now().UTC()
	if b.State == models.BatchSubmitted {
		b.State = models.BatchFailed
	}

	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := drafts.NewSQLiteRepository(tx)
		if err := repo.DeleteForItem(ctx, b.ListID, b.ItemID, b.ID); err != nil {
			return err
		}
		return repo.Save(ctx, &b)
	})
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	s.fromDraft = true
	p.log.Info(ctx, "draft saved", "batch", b.ID)
	return nil
}

// LoadDraft reopens a stored draft. A draft saved mid-submission is treated
// as failed so it can be submitted again.
func (p *propertyService) LoadDraft(ctx context.Context, id string) (*Session, error) {
	b, err := p.getDraftsRepo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ItemID != p.target.ItemID {
		return nil, fmt.Errorf("draft %s belongs to item %d: %w", id, b.ItemID, common.ErrorValidation)
	}
	if b.State == models.BatchSubmitted {
		b.State = models.BatchFailed
	}
	return newSession(b, true), nil
}

func (p *propertyService) ListDrafts(ctx context.Context) ([]*models.Batch, error) {
	return p.getDraftsRepo().List(ctx)
}

func (p *propertyService) DeleteDraft(ctx context.Context, id string) error {
	return p.getDraftsRepo().Delete(ctx, id)
}

// Settings returns every locally stored setting, ordered by key.
func (p *propertyService) Settings(ctx context.Context) ([]metadata.Entry, error) {
	return p.getMetadataRepo().List(ctx)
}

// ClearListCache drops all cached list ids, for every site, so the next
// submit looks them up again.
func (p *propertyService) ClearListCache(ctx context.Context) (int64, error) {
	n, err := p.getMetadataRepo().DeletePrefix(ctx, metadata.KeyListIDPrefix)
	if err != nil {
		return 0, err
	}
	p.log.Info(ctx, "list id cache cleared", "entries", n)
	return n, nil
}

// Ping proxies a liveness check to the underlying client.
func (p *propertyService) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (p *propertyService) Close(ctx context.Context) error {
	return p.client.Close()
}
