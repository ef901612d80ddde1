// Package cli provides the interactive LingoKeeper command-line client.
//
// It wires configuration, the local credential database, the HTTP pipeline
// and the dialogue, quiz and records services behind a small REPL with two
// routes: login and home. A stored credential starts the REPL on home; an
// authentication failure on any call clears all per-user state and moves it
// back to login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
