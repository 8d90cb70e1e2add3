// Package ports defines the contracts between the API layer and the
// state backend adapters.
package ports

import (
	"context"
	"fmt"
)

// Backend identifies which state backend the process committed to at
// startup. The choice is made once and never re-evaluated.
type Backend string

const (
	// BackendRemote is the Dapr sidecar state store.
	BackendRemote Backend = "remote"
	// BackendInMemory is the in-process fallback store.
	BackendInMemory Backend = "inmemory"
)

// StateClient is the contract every state backend implements.
// Implementations must be safe for concurrent use without external
// synchronization.
type StateClient interface {
	// GetState returns the value stored under key, or ok=false when the
	// key is absent. Absence is a normal outcome, not an error.
	GetState(ctx context.Context, store, key string) (value []byte, ok bool, err error)

	// SaveState upserts value under key. An empty value is a legal byte
	// sequence to store.
	SaveState(ctx context.Context, store, key string, value []byte) error

	// DeleteState removes key if present. Deleting an absent key
	// succeeds silently.
	DeleteState(ctx context.Context, store, key string) error
}

// BackendError reports that the backing medium (connection, remote
// call) could not complete a state operation. It is the only error
// kind backends surface; callers inspect it with errors.As and decide
// the user-visible outcome themselves.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("state backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
