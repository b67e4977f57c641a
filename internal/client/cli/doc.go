// Package cli provides the interactive page-property editor.
//
// It loads the editable properties of one page through a
// services.PropertyService, lets the user change them field by field and
// submits the whole batch in a single request. A background watcher tracks
// whether the site answers, and unsent edits can be kept as local drafts.
//
// Key features:
//   - List / Show fields and their current values
//   - Typed edits: set, add/remove choices, yes/no, date, terms, clear
//   - Preview and Submit in literal or native transport mode
//   - Save / Resume / Discard drafts
//   - Inspect or clear cached site settings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
