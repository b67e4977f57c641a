// Package drafts persists unsent property batches in the local SQLite store.
//
// A draft is one models.Batch: its identity (batch id, list id, item id), its
// lifecycle state and its property items. Items are stored as a single CBOR
// blob using core deterministic encoding, so the same batch always produces
// the same bytes.
//
// Typical usage:
//
//	repo := drafts.NewSQLiteRepository(db)
//	_ = repo.Save(ctx, batch)
//	list, _ := repo.List(ctx)
//	b, _ := repo.Get(ctx, list[0].ID)
//	_ = repo.Delete(ctx, b.ID)
package drafts
