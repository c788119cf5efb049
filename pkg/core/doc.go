// Package core defines the shared language of the vtool validation system.
//
// This package contains:
//   - Severity levels and the Diagnostic record emitted by every validator
//   - The Sink interface and a concurrency-safe Collector
//   - Structural error types (missing definitions, unsupported data types)
//   - Type-check failure types raised by the type-checker subsystem
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
