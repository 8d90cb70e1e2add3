package dapr

import (
	"context"
	"sync"

	daprc "github.com/dapr/go-sdk/client"
	"google.golang.org/grpc"

	"github.com/statebridge/statebridge/pkg/ports"
)

// Client adapts the Dapr sidecar's state API to the StateClient
// contract. Every contract operation maps to exactly one RPC, with no
// retries and no concurrency-control metadata.
//
// All operations share one gRPC connection; a mutex keeps at most one
// RPC in flight at a time. Concurrent callers queue on the mutex, so
// throughput is bounded by the sidecar's single-connection latency.
type Client struct {
	mu   sync.Mutex
	dapr daprc.Client
	conn *grpc.ClientConn
}

var _ ports.StateClient = (*Client)(nil)

// NewClient wraps an established sidecar connection. The connection is
// owned by the returned client and released by Close.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{
		dapr: daprc.NewClientWithConnection(conn),
		conn: conn,
	}
}

// GetState fetches key from the sidecar store. Dapr answers a missing
// key with an empty payload, so an empty payload maps to absent; on
// this backend a value saved as empty bytes is indistinguishable from
// one that was never saved.
func (c *Client) GetState(ctx context.Context, store, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.dapr.GetState(ctx, store, key, nil)
	if err != nil {
		return nil, false, &ports.BackendError{Op: "get state", Err: err}
	}
	if len(item.Value) == 0 {
		return nil, false, nil
	}
	return item.Value, true, nil
}

// SaveState upserts value under key in the sidecar store.
func (c *Client) SaveState(ctx context.Context, store, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.dapr.SaveState(ctx, store, key, value, nil); err != nil {
		return &ports.BackendError{Op: "save state", Err: err}
	}
	return nil
}

// DeleteState removes key from the sidecar store. Dapr treats deleting
// an absent key as success, matching the contract.
func (c *Client) DeleteState(ctx context.Context, store, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.dapr.DeleteState(ctx, store, key, nil); err != nil {
		return &ports.BackendError{Op: "delete state", Err: err}
	}
	return nil
}

// Close releases the sidecar connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
