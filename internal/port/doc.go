// Package port checks TCP port availability before the HTTP server binds.
//
// The Scanner asks the operating system directly with net.Listen. When
// the configured port is taken and auto-port is enabled, Resolve walks a
// range of ports above it and returns the first free one.
package port
