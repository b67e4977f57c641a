// Package client contains the remote and local building blocks of the
// page-property editor.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the host
//     content store: schema reader (Fields), current-value reader
//     (CurrentValues), the two submitters (ValidateUpdate for string-literal
//     form values, UpdateItem for natively typed values), ListID and Ping.
//  2. A REST implementation (see RESTClient) that sends OData JSON requests,
//     applies a per-request timeout and maps HTTP failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrValidation and common.ErrorNotFound.
// The host's error payload is available through *RemoteError, field-level
// rejections through *ValidationError.
//
// The client never retries; retry policy belongs to the caller.
package client
