// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lead-intake/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client for starting process instances.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	RequestTimeout         time.Duration
}

// NewClientWithConfig creates a Camunda client. The gRPC connection is
// established lazily, so a broker that is down does not block startup.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	config := *cfg
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	return &Client{
		client: zeebeClient,
		config: &config,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// CreateInstance starts the latest deployed version of processID with vars and
// returns the new process instance key.
func (c *Client) CreateInstance(ctx context.Context, processID string, vars map[string]interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	cmd, err := c.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	if err != nil {
		return 0, fmt.Errorf("failed to build create instance command: %w", err)
	}

	resp, err := cmd.Send(ctx)
	if err != nil {
		return 0, MapZeebeError(err, "create-instance")
	}
	return resp.GetProcessInstanceKey(), nil
}

// HealthCheck performs a basic health check against the Zeebe broker.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// ClassifyZeebeError buckets a gateway error by its message.
func ClassifyZeebeError(err error) string {
	lowerMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerMsg, "connection refused") ||
		strings.Contains(lowerMsg, "connection reset") ||
		strings.Contains(lowerMsg, "unavailable") ||
		strings.Contains(lowerMsg, "unreachable"):
		return "unavailable"
	case strings.Contains(lowerMsg, "timeout") ||
		strings.Contains(lowerMsg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(lowerMsg, "not found"):
		return "process_not_found"
	case strings.Contains(lowerMsg, "permission denied") ||
		strings.Contains(lowerMsg, "unauthenticated") ||
		strings.Contains(lowerMsg, "unauthorized"):
		return "unauthorized"
	default:
		return "unknown"
	}
}

// MapZeebeError converts a gateway error into a notification failure.
func MapZeebeError(err error, operation string) error {
	return errors.NewNotificationFailedError("workflow",
		fmt.Errorf("zeebe operation '%s' failed (%s): %w", operation, ClassifyZeebeError(err), err))
}
