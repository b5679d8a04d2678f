// Package mapi defines the public contract of the MAPI client: the typed
// error taxonomy, JSON:API collection types, query builder, response cache,
// auto-pagination engine, and response compactor shared by every resource
// operation.
//
// The request executor itself lives in internal/http; resource wiring in
// internal/client. Consumers that only need the assembled client should use
// pkg/mapiclient.
package mapi
