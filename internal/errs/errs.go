// Package errs defines the error envelope returned by every endpoint.
//
// HTTPError is serialized as-is, so clients always receive
// {success: false, code, message, status, override, errors, action}.
package errs
