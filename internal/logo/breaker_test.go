package logo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsync/internal/config"
)

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:      true,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
}

func TestWrapWithCircuitBreaker_DisabledReturnsClientUnchanged(t *testing.T) {
	client := &fakeClient{}
	wrapped := WrapWithCircuitBreaker(client, "logo-combiner", config.CircuitBreakerConfig{Enabled: false})
	assert.Same(t, Client(client), wrapped)
}

func TestBreakerClient_PassesThroughSuccess(t *testing.T) {
	client := &fakeClient{}
	wrapped := WrapWithCircuitBreaker(client, "logo-combiner", breakerConfig())

	path, err := wrapped.Combine(context.Background(), 101, 202)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/combined_logo_101_202.png", path)
}

func TestBreakerClient_OpensAfterSustainedFailures(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("combiner down")}
	wrapped := WrapWithCircuitBreaker(client, "logo-combiner-open-test", breakerConfig())

	for i := 0; i < 5; i++ {
		_, err := wrapped.Combine(context.Background(), 101, 202)
		assert.Error(t, err)
	}

	breaker, ok := wrapped.(*BreakerClient)
	require.True(t, ok)
	assert.True(t, breaker.IsOpen())

	// Open breaker fails fast without reaching the client.
	calls := client.calls
	_, err := wrapped.Combine(context.Background(), 101, 202)
	assert.Error(t, err)
	assert.Equal(t, calls, client.calls)
}
