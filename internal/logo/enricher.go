package logo

import (
	"context"

	"calsync/internal/logger"
)

// Enricher resolves combined logos through the cache. Failures are warn-level
// events and are never cached, so a transient combiner outage self-heals on
// the next message for the same pair.
type Enricher struct {
	client Client
	cache  *Cache
	logger logger.Logger
}

func NewEnricher(client Client, cacheSize int, log logger.Logger) (*Enricher, error) {
	cache, err := NewCache(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Enricher{
		client: client,
		cache:  cache,
		logger: log,
	}, nil
}

// Enrich returns the combined-logo reference for the pair, or false when
// either ID is absent or the lookup failed. One attempt per call; no retry.
func (e *Enricher) Enrich(ctx context.Context, homeOrgID, awayOrgID int64) (string, bool) {
	if homeOrgID == 0 || awayOrgID == 0 {
		return "", false
	}

	if path, ok := e.cache.Get(homeOrgID, awayOrgID); ok {
		return path, true
	}

	path, err := e.client.Combine(ctx, homeOrgID, awayOrgID)
	if err != nil {
		e.logger.WarnwCtx(ctx, "Logo enrichment failed",
			"error", err,
			"home_org_id", homeOrgID,
			"away_org_id", awayOrgID,
		)
		return "", false
	}

	e.cache.Add(homeOrgID, awayOrgID, path)
	return path, true
}

// CacheLen reports the number of cached pairs for the status surface.
func (e *Enricher) CacheLen() int {
	return e.cache.Len()
}
