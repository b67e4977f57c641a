package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	// KeySharedLockID holds the co-authoring lock sent with validate-update
	// requests.
	KeySharedLockID = "shared_lock_id"
	// KeyListIDPrefix prefixes cached list identifiers, see ListIDKey.
	KeyListIDPrefix = "list_id:"
)

// ListIDKey returns the key under which the identifier of a list is cached.
func ListIDKey(siteURL, listTitle string) string {
	return KeyListIDPrefix + siteURL + "|" + listTitle
}

// Entry is one stored setting.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// String returns the value as text.
func (e *Entry) String() string { return string(e.Value) }

// Fresh reports whether the entry was written less than maxAge before now.
func (e *Entry) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.UpdatedAt) < maxAge
}

// Repository is a small key/value store for client-side settings and
// cached lookups. Get returns common.ErrorNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (*Entry, error)
	GetString(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte) error
	SetString(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	// List returns all entries ordered by key.
	List(ctx context.Context) ([]Entry, error)
}
