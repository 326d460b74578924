// Package engine provides the core mock server engine: the response
// selector that walks each endpoint's declared sequence, the materializer
// that turns the selected variant into a concrete HTTP response, the
// request handler that binds declarations to the HTTP router, and the
// server lifecycle around them.
package engine
