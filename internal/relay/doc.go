// Package relay provides the HTTP implementation of domain.RelayClient.
//
// The relay is an untrusted store-and-forward queue: it holds opaque
// encrypted envelopes addressed by recipient identity key and hands them
// over on fetch. It learns routing metadata only, never card content, field
// names, or visibility rules.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as errors with the HTTP method,
// path, and status text.
package relay
