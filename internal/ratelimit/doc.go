// Package ratelimit paces outbound HTTP requests and retries transient
// failures. A single Limiter serializes requests to one API host so the
// spacing between requests never drops below the configured interval,
// regardless of how many callers share the client.
package ratelimit
