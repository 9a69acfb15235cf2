// Package cli is the interactive Conecta client.
//
// It wires configuration, the local store, the optional backend and the
// domain services behind a line-oriented REPL. A background watcher checks
// the backend and switches between online and offline operation; every
// command keeps working offline.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
