// Package client talks to the remote product catalog API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the rest of the core:
// list products, add a product (multipart upload), download an image and
// probe reachability. HTTPClient implements it over net/http.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable; responses that do not
// have the documented shape are reported as ErrUnexpectedResponse. Match
// them with errors.Is.
//
// All operations accept a context.Context; timeouts are left to the caller
// and the underlying http.Client.
package client
