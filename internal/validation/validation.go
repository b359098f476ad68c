// Package validation binds and validates request payloads.
//
// It uses go-playground/validator tags on request structs and turns
// failures into field-level errors the client can act on.
package validation
