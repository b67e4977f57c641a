package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/common"
	"github.com/dmitrijs2005/pageprops/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a draft by id.
func (r *SQLiteRepository) Save(ctx context.Context, b *models.Batch) error {
	items, err := encodeItems(b.Items)
	if err != nil {
		return err
	}
	updated := b.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	query := `INSERT INTO drafts (id, list_id, item_id, state, items, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET list_id = excluded.list_id,
			item_id = excluded.item_id,
			state = excluded.state,
			items = excluded.items,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.ListID, b.ItemID, string(b.State), items, updated.UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", b.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(s scanner) (*models.Batch, error) {
	var (
		b     models.Batch
		state string
		items []byte
	)
	if err := s.Scan(&b.ID, &b.ListID, &b.ItemID, &state, &items, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.State = models.BatchState(state)

	decoded, err := decodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", b.ID, err)
	}
	b.Items = decoded
	return &b, nil
}

// Get returns one draft.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Batch, error) {
	query := `SELECT id, list_id, item_id, state, items, updated_at FROM drafts WHERE id = ?`
	b, err := scanBatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft %s: %w", id, err)
	}
	return b, nil
}

// List returns all drafts, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Batch, error) {
	query := `SELECT id, list_id, item_id, state, items, updated_at FROM drafts ORDER BY updated_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var result []*models.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}
	return result, nil
}

// Delete removes a draft by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// DeleteForItem removes older drafts of the same list item.
func (r *SQLiteRepository) DeleteForItem(ctx context.Context, listID string, itemID int, keepID string) error {
	query := `DELETE FROM drafts WHERE list_id = ? AND item_id = ? AND id <> ?`
	if _, err := r.db.ExecContext(ctx, query, listID, itemID, keepID); err != nil {
		return fmt.Errorf("failed to delete drafts of item %d: %w", itemID, err)
	}
	return nil
}
