// Package validation wraps go-playground/validator for the request
// pipeline.
//
// Parameter and body constraints are expressed as validator tags
// ("max=50", "oneof=fruit meat milk", "url") and checked one value at a
// time. Failures are translated into messages the client can act on.
package validation
