// Package metadata stores client settings (shared lock id, cached list ids)
// in the local SQLite database.
package metadata
