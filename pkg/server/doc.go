// Package server exposes the playground over HTTP.
//
// The server hosts the execute endpoint used by the editor UI, the
// sample gallery, the snippet share store, a health probe and the
// Prometheus metrics endpoint.
package server
