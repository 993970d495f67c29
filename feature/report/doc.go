// Package report turns violations into operator output.
//
// The Reporter prints one console line per violation and writes the
// remediation artifact missing-permissions.csv, a permission import table with
// a single-id range per missing object. The Publisher optionally uploads the
// same artifact to S3/MinIO so audits run on a server can be collected later.
package report
