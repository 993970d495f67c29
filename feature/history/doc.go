// Package history records audit runs in a SQL database.
//
// Every run stores its summary counts, the sources it was computed from, the
// location of the artifact and the list of violations. Runs can be listed
// newest first or fetched one by one with their violations.
package history
