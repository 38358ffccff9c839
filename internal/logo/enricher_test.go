package logo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsync/internal/logger"
)

type fakeClient struct {
	calls int
	err   error
}

func (f *fakeClient) Combine(ctx context.Context, home, away int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("/tmp/combined_logo_%d_%d.png", home, away), nil
}

func TestEnricher_CachesCombinedLogo(t *testing.T) {
	client := &fakeClient{}
	enricher, err := NewEnricher(client, 8, logger.NopLogger())
	require.NoError(t, err)

	ctx := context.Background()

	path, ok := enricher.Enrich(ctx, 101, 202)
	require.True(t, ok)
	assert.Equal(t, "/tmp/combined_logo_101_202.png", path)
	assert.Equal(t, 1, client.calls)

	// Same pair again: served from cache, no second request.
	path, ok = enricher.Enrich(ctx, 101, 202)
	require.True(t, ok)
	assert.Equal(t, "/tmp/combined_logo_101_202.png", path)
	assert.Equal(t, 1, client.calls)
}

func TestEnricher_ReversedPairHitsCache(t *testing.T) {
	client := &fakeClient{}
	enricher, err := NewEnricher(client, 8, logger.NopLogger())
	require.NoError(t, err)

	ctx := context.Background()

	_, ok := enricher.Enrich(ctx, 101, 202)
	require.True(t, ok)

	_, ok = enricher.Enrich(ctx, 202, 101)
	require.True(t, ok)
	assert.Equal(t, 1, client.calls)
}

func TestEnricher_ZeroOrgIDSkipsLookup(t *testing.T) {
	client := &fakeClient{}
	enricher, err := NewEnricher(client, 8, logger.NopLogger())
	require.NoError(t, err)

	ctx := context.Background()

	_, ok := enricher.Enrich(ctx, 0, 202)
	assert.False(t, ok)
	_, ok = enricher.Enrich(ctx, 101, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, client.calls)
}

func TestEnricher_FailureNotCached(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("combiner unavailable")}
	enricher, err := NewEnricher(client, 8, logger.NopLogger())
	require.NoError(t, err)

	ctx := context.Background()

	_, ok := enricher.Enrich(ctx, 101, 202)
	assert.False(t, ok)
	assert.Equal(t, 0, enricher.CacheLen())

	// Combiner recovers; the same pair is retried, not poisoned.
	client.err = nil
	path, ok := enricher.Enrich(ctx, 101, 202)
	require.True(t, ok)
	assert.NotEmpty(t, path)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 1, enricher.CacheLen())
}
