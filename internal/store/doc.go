// Package store defines the persistence interfaces of the application along
// with the sentinel errors shared by every implementation. The singleton
// entities (user state, system config) are exposed through explicit
// single-instance accessors with lazy-create-with-defaults semantics rather
// than generic keyed lookups, so "there is exactly one" is a property of the
// interface, not a convention.
package store
