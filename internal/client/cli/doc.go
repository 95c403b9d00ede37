// Package cli provides the interactive laundrydesk console.
//
// It wires configuration, the local credential database, the REST client, the
// auth manager and the route guard behind a small REPL. Every command first
// navigates to the view it belongs to, so the guard decides what is
// reachable: staff sign in with "login", customers with "phone" followed by
// "otp".
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
