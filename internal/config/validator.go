// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` right after defaults are applied.
// Any failure aborts startup, so the binary never runs with partial or
// malformed configuration.  Built-in rules cover most fields (`required`,
// `oneof`, `hostname_port`, `url`); the cross-field check below keeps
// `render.pass_through: proxy` from running without an origin.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Render.PassThrough == "proxy" && c.Render.AppOrigin == "" {
		return errors.New("config: render.pass_through is proxy but render.app_origin is empty")
	}
	return nil
}
