// Package middleware stores the global middleware and the error funnel.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, New Relic tracing, CORS, body
// limits, panic recovery and the JSON error envelope.
package middleware
