// Package server holds the HTTP server configuration.
//
// The serve command builds a Fiber app from this Config: it listens on
// Address(), caps uploads at BodyLimit() and protects the API with ApiKey
// when one is set.
package server
