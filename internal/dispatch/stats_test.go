package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Counters(t *testing.T) {
	stats := NewStats()

	stats.MessageReceived("fogis:matches:updates:v2")
	stats.MessageReceived("fogis:matches:updates:v2")
	stats.MessageReceived("fogis:matches:updates")
	stats.MessageProcessed()
	stats.MessageProcessed()
	stats.ErrorOccurred()

	snap := stats.Snapshot()
	assert.Equal(t, uint64(3), snap.MessagesReceived)
	assert.Equal(t, uint64(2), snap.MessagesProcessed)
	assert.Equal(t, uint64(1), snap.Errors)
	assert.Len(t, snap.LastMessageAt, 2)
	assert.Contains(t, snap.LastMessageAt, "fogis:matches:updates:v2")
}

func TestStats_SchemaBuckets(t *testing.T) {
	stats := NewStats()

	stats.SchemaCounted(SchemaEnhancedV2)
	stats.SchemaCounted(SchemaLegacyV1)
	stats.SchemaCounted(SchemaLegacyV15)
	stats.SchemaCounted(SchemaUnknown)

	snap := stats.Snapshot()
	assert.Equal(t, uint64(1), snap.SchemaV2Messages)
	assert.Equal(t, uint64(2), snap.SchemaLegacyMessages)
	assert.Equal(t, uint64(1), snap.SchemaUnknownMessages)
}

func TestStats_SnapshotIsCopy(t *testing.T) {
	stats := NewStats()
	stats.MessageReceived("a")

	snap := stats.Snapshot()
	delete(snap.LastMessageAt, "a")

	assert.Contains(t, stats.Snapshot().LastMessageAt, "a")
}

func TestStats_ConcurrentAccess(t *testing.T) {
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				stats.MessageReceived("chan")
				stats.MessageProcessed()
				_ = stats.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := stats.Snapshot()
	assert.Equal(t, uint64(800), snap.MessagesReceived)
	assert.Equal(t, uint64(800), snap.MessagesProcessed)
}
