package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsync/internal/logger"
	"calsync/pkg/models"
)

type fakeEnricher struct {
	calls []string
	fail  bool
}

func (f *fakeEnricher) Enrich(ctx context.Context, home, away int64) (string, bool) {
	f.calls = append(f.calls, fmt.Sprintf("%d-%d", home, away))
	if f.fail {
		return "", false
	}
	return fmt.Sprintf("/tmp/logo_%d_%d.png", home, away), true
}

type syncCall struct {
	matches []models.Match
	urgency Urgency
}

type fakeSyncer struct {
	calls []syncCall
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context, matches []models.Match, urgency Urgency) error {
	f.calls = append(f.calls, syncCall{matches: matches, urgency: urgency})
	return f.err
}

func enhancedEnvelope(t *testing.T, changes ...models.DetailedChange) []byte {
	t.Helper()
	e := models.NewEnvelopeBuilder().
		WithSchemaVersion("2.0").
		WithSource("match-list-processor").
		WithTimestamp(time.Now()).
		WithMatches(models.Match{
			MatchID: 123456,
			Teams: &models.Teams{
				Home: models.Team{Name: "AIK", OrganizationID: 101},
				Away: models.Team{Name: "Hammarby", OrganizationID: 202},
			},
		}).
		WithDetailedChanges(changes...).
		Build()

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	return raw
}

func newTestDispatcher(enricher Enricher, syncer Syncer) *Dispatcher {
	return NewDispatcher(enricher, syncer, NewStats(), logger.NopLogger())
}

func TestDispatcher_EnhancedMessageEnrichedAndSynced(t *testing.T) {
	enricher := &fakeEnricher{}
	syncer := &fakeSyncer{}
	d := newTestDispatcher(enricher, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))

	require.Len(t, enricher.calls, 1)
	assert.Equal(t, "101-202", enricher.calls[0])

	require.Len(t, syncer.calls, 1)
	assert.Equal(t, UrgencyStandard, syncer.calls[0].urgency)
	require.Len(t, syncer.calls[0].matches, 1)
	assert.Equal(t, "/tmp/logo_101_202.png", syncer.calls[0].matches[0].LogoPath)

	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(1), snap.MessagesReceived)
	assert.Equal(t, uint64(1), snap.MessagesProcessed)
	assert.Equal(t, uint64(1), snap.SchemaV2Messages)
	assert.Equal(t, uint64(0), snap.Errors)
}

func TestDispatcher_LegacyMessageSkipsEnrichment(t *testing.T) {
	enricher := &fakeEnricher{}
	syncer := &fakeSyncer{}
	d := newTestDispatcher(enricher, syncer)

	raw, err := json.Marshal(models.NewEnvelopeBuilder().
		WithSchemaVersion("1.0").
		WithMatches(models.Match{
			MatchID:      123456,
			HomeTeamName: "AIK",
			AwayTeamName: "Hammarby",
		}).
		Build())
	require.NoError(t, err)

	d.Handle(context.Background(), "fogis:matches:updates", raw)

	assert.Empty(t, enricher.calls)
	require.Len(t, syncer.calls, 1)
	assert.Empty(t, syncer.calls[0].matches[0].LogoPath)

	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(1), snap.SchemaLegacyMessages)
}

func TestDispatcher_MissingVersionTreatedAsLegacy(t *testing.T) {
	enricher := &fakeEnricher{}
	syncer := &fakeSyncer{}
	d := newTestDispatcher(enricher, syncer)

	raw := []byte(`{"message_id":"m-1","type":"match_updates","payload":{"matches":[{"match_id":7}]}}`)
	d.Handle(context.Background(), "fogis:matches:updates", raw)

	assert.Empty(t, enricher.calls)
	require.Len(t, syncer.calls, 1)
	assert.Equal(t, uint64(1), d.Stats().Snapshot().SchemaLegacyMessages)
}

func TestDispatcher_HighPriorityChangePromotesSync(t *testing.T) {
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	raw := enhancedEnvelope(t, models.DetailedChange{
		Field:    "kickoff",
		Category: models.CategoryTimeChange,
	})
	d.Handle(context.Background(), "fogis:matches:updates:v2", raw)

	require.Len(t, syncer.calls, 1)
	assert.Equal(t, UrgencyHigh, syncer.calls[0].urgency)
}

func TestDispatcher_RefereeChangeStaysStandard(t *testing.T) {
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	raw := enhancedEnvelope(t, models.DetailedChange{
		Field:    "referee",
		Category: models.CategoryRefereeChange,
	})
	d.Handle(context.Background(), "fogis:matches:updates:v2", raw)

	require.Len(t, syncer.calls, 1)
	assert.Equal(t, UrgencyStandard, syncer.calls[0].urgency)
}

func TestDispatcher_NoChangesStillSyncs(t *testing.T) {
	// has_changes is advisory; every match_updates envelope triggers a sync.
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))

	require.Len(t, syncer.calls, 1)
}

func TestDispatcher_MalformedMessageIsIsolated(t *testing.T) {
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", []byte("{not json"))

	assert.Empty(t, syncer.calls)
	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(1), snap.MessagesReceived)
	assert.Equal(t, uint64(0), snap.MessagesProcessed)
	assert.Equal(t, uint64(1), snap.Errors)

	// The next well-formed message is handled normally.
	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))
	require.Len(t, syncer.calls, 1)
	assert.Equal(t, uint64(1), d.Stats().Snapshot().MessagesProcessed)
}

func TestDispatcher_NonMatchTypesSkipSync(t *testing.T) {
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	for _, typ := range []string{models.TypeProcessorStatus, models.TypeSystemAlert} {
		raw, err := json.Marshal(models.NewEnvelopeBuilder().
			WithSchemaVersion("2.0").
			WithType(typ).
			Build())
		require.NoError(t, err)
		d.Handle(context.Background(), "fogis:processor:status", raw)
	}

	assert.Empty(t, syncer.calls)
	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(2), snap.MessagesReceived)
	assert.Equal(t, uint64(2), snap.MessagesProcessed)
	assert.Equal(t, uint64(0), snap.Errors)
}

func TestDispatcher_EnrichmentFailureDegradesGracefully(t *testing.T) {
	enricher := &fakeEnricher{fail: true}
	syncer := &fakeSyncer{}
	d := newTestDispatcher(enricher, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))

	require.Len(t, enricher.calls, 1)
	require.Len(t, syncer.calls, 1)
	assert.Empty(t, syncer.calls[0].matches[0].LogoPath)
	assert.Equal(t, uint64(0), d.Stats().Snapshot().Errors)
}

func TestDispatcher_NilEnricher(t *testing.T) {
	syncer := &fakeSyncer{}
	d := newTestDispatcher(nil, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))

	require.Len(t, syncer.calls, 1)
	assert.Empty(t, syncer.calls[0].matches[0].LogoPath)
}

func TestDispatcher_MatchWithoutOrgIDsSkipsLogo(t *testing.T) {
	enricher := &fakeEnricher{}
	syncer := &fakeSyncer{}
	d := newTestDispatcher(enricher, syncer)

	raw, err := json.Marshal(models.NewEnvelopeBuilder().
		WithSchemaVersion("2.0").
		WithMatches(
			models.Match{
				MatchID: 1,
				Teams: &models.Teams{
					Home: models.Team{Name: "AIK"},
					Away: models.Team{Name: "Hammarby", OrganizationID: 202},
				},
			},
			models.Match{
				MatchID: 2,
				Teams: &models.Teams{
					Home: models.Team{Name: "GAIS", OrganizationID: 303},
					Away: models.Team{Name: "BK Häcken", OrganizationID: 404},
				},
			},
		).
		Build())
	require.NoError(t, err)

	d.Handle(context.Background(), "fogis:matches:updates:v2", raw)

	require.Len(t, enricher.calls, 1)
	assert.Equal(t, "303-404", enricher.calls[0])
	require.Len(t, syncer.calls, 1)
	assert.Empty(t, syncer.calls[0].matches[0].LogoPath)
	assert.NotEmpty(t, syncer.calls[0].matches[1].LogoPath)
}

func TestDispatcher_DuplicateDeliverySyncsTwice(t *testing.T) {
	// At-most-once transport semantics: no dedup here, a redelivered envelope
	// is dispatched again and the counters reflect both.
	syncer := &fakeSyncer{}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	raw := enhancedEnvelope(t)
	d.Handle(context.Background(), "fogis:matches:updates:v2", raw)
	d.Handle(context.Background(), "fogis:matches:updates:v2", raw)

	assert.Len(t, syncer.calls, 2)
	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(2), snap.MessagesReceived)
	assert.Equal(t, uint64(2), snap.MessagesProcessed)
	assert.Equal(t, uint64(2), snap.SchemaV2Messages)
}

func TestDispatcher_SyncFailureCountedButProcessed(t *testing.T) {
	syncer := &fakeSyncer{err: fmt.Errorf("calendar service unavailable")}
	d := newTestDispatcher(&fakeEnricher{}, syncer)

	d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))

	require.Len(t, syncer.calls, 1)
	snap := d.Stats().Snapshot()
	assert.Equal(t, uint64(1), snap.MessagesProcessed)
	assert.Equal(t, uint64(1), snap.Errors)
}

func TestDispatcher_PanicInSyncerRecovered(t *testing.T) {
	d := newTestDispatcher(&fakeEnricher{}, SyncFunc(
		func(ctx context.Context, matches []models.Match, urgency Urgency) error {
			panic("boom")
		}))

	assert.NotPanics(t, func() {
		d.Handle(context.Background(), "fogis:matches:updates:v2", enhancedEnvelope(t))
	})
	assert.Equal(t, uint64(1), d.Stats().Snapshot().Errors)
}
