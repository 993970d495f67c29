// Package utils provides common utility functions for the license-auditor application.
// It includes helpers for coercing spreadsheet cell values into ids and strings
// and other shared logic that doesn't fit into domain-specific packages.
package utils
