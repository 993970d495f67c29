// Package audit ties the license parser, the inventory loader, the reconciler
// and the reporter together.
//
// The Service runs one audit per call. Check works on files on disk and is
// used by the CLI; Upload works on streams and backs the HTTP API. After the
// report, a run is optionally published to object storage and recorded in the
// history database. Failures of these optional stages are logged as warnings.
//
// # Routes
//
//	POST /audit           multipart "license", "objects", optional "sheet"
//	GET  /audit/runs      recorded runs, newest first (?limit=N)
//	GET  /audit/runs/:id  one run with its violations
package audit
