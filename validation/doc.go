// Package validation provides struct validation for authkit configuration.
//
// It wraps the validator library so config structs can declare their
// constraints with struct tags:
//
//	type Config struct {
//	    Issuer   string `validate:"required,url"`
//	    ClientID string `validate:"required"`
//	}
//	err := validation.Validate(cfg)
package validation
