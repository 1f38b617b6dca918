// Package app wires the application together: configuration, logging,
// the warehouse client, services, the HTTP router, and the server
// lifecycle. Everything is constructed here and injected down; no
// package below app reaches for globals.
package app
