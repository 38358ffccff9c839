package dispatch

import (
	"context"
	"time"

	"calsync/internal/constants"
	"calsync/internal/logger"
	"calsync/pkg/errors"
	"calsync/pkg/logging"
	"calsync/pkg/metrics"
	"calsync/pkg/models"
)

// Enricher attaches a combined-logo reference for a team pair. A false return
// means no logo, which is never an error at this level.
type Enricher interface {
	Enrich(ctx context.Context, homeOrgID, awayOrgID int64) (string, bool)
}

// Syncer is the external calendar-sync collaborator. Retry and idempotency
// are its responsibility; the dispatcher invokes it once per envelope.
type Syncer interface {
	Sync(ctx context.Context, matches []models.Match, urgency Urgency) error
}

// SyncFunc adapts a plain function to the Syncer interface.
type SyncFunc func(ctx context.Context, matches []models.Match, urgency Urgency) error

func (f SyncFunc) Sync(ctx context.Context, matches []models.Match, urgency Urgency) error {
	return f(ctx, matches, urgency)
}

// Dispatcher is the orchestration core: decode, classify, enrich, evaluate,
// sync. Nothing it does may escape Handle; a problematic message is counted
// and logged, never allowed to stop the subscription loop.
type Dispatcher struct {
	enricher Enricher
	syncer   Syncer
	stats    *Stats
	logger   logger.Logger
}

func NewDispatcher(enricher Enricher, syncer Syncer, stats *Stats, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		enricher: enricher,
		syncer:   syncer,
		stats:    stats,
		logger:   log,
	}
}

func (d *Dispatcher) Stats() *Stats {
	return d.stats
}

// Handle processes one raw transport message. It is called synchronously from
// the subscription worker, one message at a time in arrival order.
func (d *Dispatcher) Handle(ctx context.Context, channel string, raw []byte) {
	d.stats.MessageReceived(channel)
	metrics.MessagesReceivedTotal.WithLabelValues(channel).Inc()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := errors.RecoverPanic(r)
			d.stats.ErrorOccurred()
			d.logger.ErrorwCtx(ctx, "Panic recovered during message handling",
				"error", err,
				"channel", channel,
			)
		}
	}()

	envelope, err := models.DecodeEnvelope(raw)
	if err != nil {
		d.stats.ErrorOccurred()
		metrics.MessagesProcessedTotal.WithLabelValues("unknown", "decode_error").Inc()
		d.logger.ErrorwCtx(ctx, "Dropping undecodable message",
			"error", errors.Wrap(err, errors.ErrDecode),
			"channel", channel,
			"payload_excerpt", truncate(raw, constants.DefaultTruncateLen),
		)
		return
	}

	ctx = logging.WithMessageID(ctx, envelope.MessageID)
	ctx = logging.WithChannel(ctx, channel)

	class := Classify(envelope)
	d.stats.SchemaCounted(class)

	if envelope.Type != models.TypeMatchUpdates {
		d.logger.InfowCtx(ctx, "Received non-match message",
			"type", envelope.Type,
			"schema", class.String(),
		)
		d.stats.MessageProcessed()
		metrics.MessagesProcessedTotal.WithLabelValues(class.String(), "skipped").Inc()
		return
	}

	matches := envelope.Payload.Matches

	if class == SchemaEnhancedV2 && d.enricher != nil {
		for i := range matches {
			home, away := matches[i].OrgIDs()
			if home == 0 || away == 0 {
				d.logger.DebugwCtx(ctx, "Match missing organization IDs, skipping logo",
					"match_id", matches[i].MatchID,
					"home_org_id", home,
					"away_org_id", away,
				)
				continue
			}
			if logoPath, ok := d.enricher.Enrich(ctx, home, away); ok {
				matches[i].LogoPath = logoPath
			}
		}
	}

	urgency := EvaluatePriority(envelope.Payload.DetailedChanges)

	d.logger.InfowCtx(ctx, "Dispatching calendar sync",
		"schema", class.String(),
		"urgency", urgency.String(),
		"matches", len(matches),
		"has_changes", envelope.Payload.Metadata.HasChanges,
	)

	syncStart := time.Now()
	syncErr := d.syncer.Sync(ctx, matches, urgency)
	metrics.SyncDuration.WithLabelValues(urgency.String()).
		Observe(float64(time.Since(syncStart).Milliseconds()))

	if syncErr != nil {
		d.stats.ErrorOccurred()
		metrics.SyncCallsTotal.WithLabelValues(urgency.String(), "error").Inc()
		d.logger.ErrorwCtx(ctx, "Calendar sync failed",
			"error", syncErr,
			"retryable", errors.IsRetryable(syncErr),
			"schema", class.String(),
			"urgency", urgency.String(),
			"match_ids", matchIDs(matches),
		)
	} else {
		metrics.SyncCallsTotal.WithLabelValues(urgency.String(), "success").Inc()
	}

	d.stats.MessageProcessed()
	metrics.MessagesProcessedTotal.WithLabelValues(class.String(), status(syncErr)).Inc()
	metrics.MessageProcessingDuration.WithLabelValues(class.String()).
		Observe(float64(time.Since(start).Milliseconds()))
}

func status(err error) string {
	if err != nil {
		return "sync_error"
	}
	return "success"
}

func matchIDs(matches []models.Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	return ids
}

func truncate(raw []byte, max int) string {
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
