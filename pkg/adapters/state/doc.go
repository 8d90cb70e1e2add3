// Package state provides state backend implementations.
//
// Implementations:
//   - dapr: Dapr sidecar state store over gRPC
//   - memory: In-memory fallback for local development
package state
