// Package cli provides the interactive cargodesk command-line client.
//
// It wires configuration, the local session database, the authenticated
// API client and the application services behind a line-oriented REPL.
// A typical session: log in, open a draft with new or edit, fill the tabs
// with set/keeping/working/mode/transport/product/photo, move between tabs
// with next/back/goto and submit on the last tab.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
