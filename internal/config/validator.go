// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.  loader.go calls
// validateStruct right after unmarshal; any failure aborts startup.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
