// Package middleware groups the Fiber middleware of the audit API.
//
//   - auth: X-API-Key validation, skipped when no key is configured.
//   - rayid: per-request ray id in Locals and the X-Ray-ID response header.
package middleware
