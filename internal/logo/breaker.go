package logo

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"calsync/internal/config"
	"calsync/pkg/circuitbreaker"
)

// BreakerClient sheds load during sustained logo-service outages. An open
// breaker fails fast; the enricher degrades to "no logo" exactly as it does
// for a direct failure.
type BreakerClient struct {
	client Client
	cb     *circuitbreaker.Wrapper
	name   string
}

func NewBreakerClient(client Client, name string, cfg circuitbreaker.Config) *BreakerClient {
	return &BreakerClient{
		client: client,
		cb:     circuitbreaker.NewWrapper(cfg),
		name:   name,
	}
}

func (c *BreakerClient) Combine(ctx context.Context, homeOrgID, awayOrgID int64) (string, error) {
	result, err := c.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return c.client.Combine(ctx, homeOrgID, awayOrgID)
	})

	c.cb.RecordRequest(err == nil)

	if err != nil {
		if c.cb.IsOpen() {
			return "", fmt.Errorf("circuit breaker is open for %s: %w", c.name, err)
		}
		return "", err
	}

	path, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("logo client returned invalid result type")
	}
	return path, nil
}

func (c *BreakerClient) IsOpen() bool {
	return c.cb.IsOpen()
}

// WrapWithCircuitBreaker applies the configured breaker, or returns the
// client unchanged when breaking is disabled.
func WrapWithCircuitBreaker(client Client, name string, cfg config.CircuitBreakerConfig) Client {
	if !cfg.Enabled {
		return client
	}

	cbConfig := circuitbreaker.DefaultConfig(name)
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return NewBreakerClient(client, name, cbConfig)
}
