// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// Each handler declares its routes: the parameters, body model,
// dependencies and response shape they need. The route pipeline
// validates all of it, so handler functions only call the service
// layer and build results.
package handler
