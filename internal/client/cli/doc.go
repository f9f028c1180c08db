// Package cli provides the interactive qrregistry command-line client.
//
// It wires configuration, the REST API client and an interactive REPL.
// A background watcher pings the server and shows whether the client is
// online or offline in the prompt.
//
// Key features:
//   - Register / Login / Logout
//   - Create, list, show, edit and delete your records
//   - Check whether a national ID is already registered
//   - Resolve a scanned QR payload to its record
//   - Save a record's QR code as PNG or publish a share link
//   - List the whole registry (admin accounts)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
