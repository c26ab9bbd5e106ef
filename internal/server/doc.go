// Package server assembles the Fiber application that exposes the cache to
// the ingestion side: request-ID middleware, panic recovery and shared app
// options. HTTP route handlers live in the routes subpackage so they can be
// registered independently in tests.
package server
