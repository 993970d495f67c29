// Package logger builds the zap logger used across the auditor.
//
// Level selects the minimum level (debug also switches to zap's development
// config). Format selects console or json encoding. Logs go to stderr so the
// audit report on stdout stays clean.
//
// HTTP handlers use WithRayID to tag entries with the ray id set by the
// rayid middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Audit request failed", zap.Error(err))
package logger
