// Package validation checks solver parameters and configuration.
//
// Struct tag validation (go-playground/validator) covers solver options;
// the fluent Validator collects errors for ad-hoc checks such as config
// sections and request headers. Both report failures as an INVALID_INPUT
// *errors.AppError listing every offending field.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Tolerance float64 `mapstructure:"tolerance" validate:"gt=0"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Range("server.port", port, 1, 65535)
//	err := v.Validate()
package validation
