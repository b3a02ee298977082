// Package validation checks iteration options and configuration before any
// work starts.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as
// INVALID_ARGUMENT errors carrying per-field details.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Batch int `validate:"gte=0"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(handler != nil, "handler", "must be set")
//	err := v.Error()
package validation
