// Package memory provides process-local implementations of the storage ports.
//
// Everything here is lost when the process exits. The stores back the
// "memory" vector store and catalog backends and double as fakes in tests.
package memory
