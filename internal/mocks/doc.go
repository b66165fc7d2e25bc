// Package mocks provides in-memory store fakes, generator fakes, and a
// no-op database stub for unit testing services without PostgreSQL or
// provider credentials.
package mocks
