// Package repository holds the domain entities and the storage contracts the
// services depend on.
//
//	services ──► repository (interfaces) ──► store/pg | store/memstore
//
// Conventions:
//   - context.Context is always the first parameter
//   - a missing row is ErrNotFound, a unique violation ErrConflict
//   - the acting identity of a request travels in the context (see WithActor)
package repository
