// Package stub defines the declarative model for mock endpoints: an
// endpoint is a (method, path) pattern paired with an ordered sequence of
// response variants. The engine consumes these declarations; this package
// only describes them and validates them at configuration time.
package stub
