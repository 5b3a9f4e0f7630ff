// Package observe provides observability primitives for cache operations.
//
// It is a pure instrumentation library: no cache logic, no transport, no
// I/O beyond exporter setup. Consumers wire the recorder into the cache
// engine and the middleware around their compute functions.
package observe
