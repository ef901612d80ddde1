// Package client is the transport pipeline between the client services and
// the remote learning service.
//
// # Overview
//
// The package provides:
//  1. The remote contract (see the Client interface): auth, dialogue
//     scenarios and sessions, quizzes, learning records and statistics.
//  2. HTTPClient, the single chokepoint every call goes through. It attaches
//     the bearer credential through a RoundTripper, bounds each call by a
//     fixed timeout, unwraps the {code, message, data} envelope and
//     classifies failures.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failure is returned as *Error whose Message is user-facing. Kinds
// are matched with errors.Is: ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrRateLimited, ErrServer, ErrUnavailable, ErrBusiness, ErrRequestFailed
// and ErrDecode. Each failure also raises a Notice through the configured
// Notifier.
//
// An authentication failure (HTTP 401, or a stored JWT that has already
// expired) clears the credential and then calls the handler registered
// with WithUnauthenticatedHandler, regardless of which call failed.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
