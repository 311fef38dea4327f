// Package internal documents the campus events portal internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - domain: accounts, catalog, registrations, and contact intake
// - storage: the namespaced key-value adapter and its backends
// - auth, audit, config, email, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
