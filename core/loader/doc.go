// Package loader registers HTTP features and mounts the enabled ones.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order; LoadAll skips disabled
// features and returns the first load error.
package loader
