// Package guard composes token verification, context construction, and
// scope enforcement into a single request pipeline for tool servers.
// It also provides the transport plumbing that carries bearer tokens
// from HTTP headers into the request context.
package guard
