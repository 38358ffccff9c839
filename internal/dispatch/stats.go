package dispatch

import (
	"sync"
	"time"
)

// Stats holds the process-lifetime counters for the subscription. It is
// written only by the dispatcher worker and read concurrently by the status
// endpoint, so every access goes through the lock.
type Stats struct {
	mu sync.RWMutex

	startTime time.Time

	messagesReceived  uint64
	messagesProcessed uint64
	errors            uint64

	schemaV2Messages      uint64
	schemaLegacyMessages  uint64
	schemaUnknownMessages uint64

	lastMessageAt map[string]time.Time
}

func NewStats() *Stats {
	return &Stats{
		startTime:     time.Now(),
		lastMessageAt: make(map[string]time.Time),
	}
}

func (s *Stats) MessageReceived(channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesReceived++
	s.lastMessageAt[channel] = time.Now()
}

func (s *Stats) MessageProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesProcessed++
}

func (s *Stats) ErrorOccurred() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

func (s *Stats) SchemaCounted(class SchemaClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch class {
	case SchemaEnhancedV2:
		s.schemaV2Messages++
	case SchemaLegacyV1, SchemaLegacyV15:
		s.schemaLegacyMessages++
	default:
		s.schemaUnknownMessages++
	}
}

// Snapshot is the read-only view served to the host's status surface.
type Snapshot struct {
	MessagesReceived      uint64               `json:"messages_received"`
	MessagesProcessed     uint64               `json:"messages_processed"`
	Errors                uint64               `json:"errors"`
	SchemaV2Messages      uint64               `json:"schema_v2_messages"`
	SchemaLegacyMessages  uint64               `json:"schema_legacy_messages"`
	SchemaUnknownMessages uint64               `json:"schema_unknown_messages"`
	LastMessageAt         map[string]time.Time `json:"last_message_at,omitempty"`
	UptimeSeconds         float64              `json:"uptime_seconds"`
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := make(map[string]time.Time, len(s.lastMessageAt))
	for channel, at := range s.lastMessageAt {
		last[channel] = at
	}

	return Snapshot{
		MessagesReceived:      s.messagesReceived,
		MessagesProcessed:     s.messagesProcessed,
		Errors:                s.errors,
		SchemaV2Messages:      s.schemaV2Messages,
		SchemaLegacyMessages:  s.schemaLegacyMessages,
		SchemaUnknownMessages: s.schemaUnknownMessages,
		LastMessageAt:         last,
		UptimeSeconds:         time.Since(s.startTime).Seconds(),
	}
}
