// Package errs defines the error types the request pipeline understands.
//
// Handlers, dependencies and the parameter/body binders all report
// failures through these types so clients receive one consistent JSON
// error shape. The Mapper turns any error into an *HTTPError; new
// application error kinds are registered on it at startup.
package errs
