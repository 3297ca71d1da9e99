// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, tracing, metrics, CORS,
// rate limiting, panic recovery, and the final error-to-response
// conversion.
package middleware
