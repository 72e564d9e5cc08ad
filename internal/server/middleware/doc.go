// Package middleware holds the fiber middleware shared by the rotkit HTTP
// server: request IDs, structured access logs and request metrics.
package middleware
