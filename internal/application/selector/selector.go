package selector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	daprstate "github.com/statebridge/statebridge/pkg/adapters/state/dapr"
	"github.com/statebridge/statebridge/pkg/adapters/state/memory"
	"github.com/statebridge/statebridge/pkg/ports"
)

// Config holds the probe and connection parameters for backend
// selection.
type Config struct {
	// SidecarExpected skips probing entirely when false; the selector
	// commits straight to the in-memory backend.
	SidecarExpected bool

	// HealthURL is the sidecar's outbound health endpoint.
	HealthURL string
	// GRPCTarget is the sidecar's gRPC address.
	GRPCTarget string

	// ProbeInterval is the fixed wait between health probe attempts.
	ProbeInterval time.Duration
	// ProbeTimeout bounds a single probe attempt.
	ProbeTimeout time.Duration
	// ProbeDeadline bounds the whole probe loop. An attempt already in
	// flight when the deadline passes may overrun it by ProbeTimeout.
	ProbeDeadline time.Duration
	// DialTimeout bounds the wait for the gRPC connection to become
	// ready after a successful probe.
	DialTimeout time.Duration
}

// Select probes the sidecar and commits to one state backend for the
// process lifetime. It never fails: any probe or connection problem
// degrades to the in-memory backend, which is an informational event
// rather than an error since the service stays fully functional.
func Select(ctx context.Context, cfg Config, logger *zap.Logger) (ports.StateClient, ports.Backend) {
	if !cfg.SidecarExpected {
		logger.Info("no sidecar configured, using in-memory state store")
		return memory.NewStore(), ports.BackendInMemory
	}

	if err := waitForSidecar(ctx, cfg); err != nil {
		logger.Info("sidecar not ready, using in-memory state store for local dev",
			zap.Error(err))
		return memory.NewStore(), ports.BackendInMemory
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		logger.Info("sidecar connection failed, using in-memory state store for local dev",
			zap.Error(err))
		return memory.NewStore(), ports.BackendInMemory
	}

	logger.Info("sidecar ready, using remote state store",
		zap.String("target", cfg.GRPCTarget))
	return client, ports.BackendRemote
}

// waitForSidecar polls the sidecar's outbound health endpoint at a
// fixed interval until it answers with a success status or the probe
// deadline passes.
func waitForSidecar(ctx context.Context, cfg Config) error {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryWaitMin = cfg.ProbeInterval
	rc.RetryWaitMax = cfg.ProbeInterval
	rc.RetryMax = int(cfg.ProbeDeadline / cfg.ProbeInterval)
	rc.HTTPClient.Timeout = cfg.ProbeTimeout
	// The sidecar answers anything from 404 to 500 while it starts up,
	// so keep probing on every error and every non-success status; only
	// the context deadline ends the loop early.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return true, nil
		}
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ProbeDeadline)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("build health probe request: %w", err)
	}

	resp, err := rc.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sidecar health probe: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// connect dials the sidecar's gRPC endpoint and waits for the
// connection to become ready before handing it to the state client.
func connect(ctx context.Context, cfg Config) (*daprstate.Client, error) {
	conn, err := grpc.NewClient(cfg.GRPCTarget,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial sidecar: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := waitReady(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sidecar connection not ready: %w", err)
	}

	return daprstate.NewClient(conn), nil
}

func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		conn.Connect()
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}
