// Package validation validates configuration structs and command-line input.
//
// Struct tag validation uses go-playground/validator with field names taken
// from mapstructure tags, so messages match the keys users write in
// config.yml:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic checks collect field errors the same way:
//
//	v := validation.New()
//	v.Required("header", name)
//	err := v.Validate()
package validation
