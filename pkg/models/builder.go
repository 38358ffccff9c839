package models

import (
	"time"

	"github.com/google/uuid"
)

type EnvelopeBuilder struct {
	envelope *Envelope
}

func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{
		envelope: &Envelope{
			Type: TypeMatchUpdates,
		},
	}
}

func (b *EnvelopeBuilder) WithSchemaVersion(version string) *EnvelopeBuilder {
	b.envelope.SchemaVersion = version
	return b
}

func (b *EnvelopeBuilder) WithMessageID(id string) *EnvelopeBuilder {
	b.envelope.MessageID = id
	return b
}

func (b *EnvelopeBuilder) WithSource(source string) *EnvelopeBuilder {
	b.envelope.Source = source
	return b
}

func (b *EnvelopeBuilder) WithType(messageType string) *EnvelopeBuilder {
	b.envelope.Type = messageType
	return b
}

func (b *EnvelopeBuilder) WithTimestamp(timestamp time.Time) *EnvelopeBuilder {
	b.envelope.Timestamp = timestamp
	return b
}

func (b *EnvelopeBuilder) WithMatches(matches ...Match) *EnvelopeBuilder {
	b.envelope.Payload.Matches = matches
	b.envelope.Payload.Metadata.TotalMatches = len(matches)
	return b
}

func (b *EnvelopeBuilder) WithDetailedChanges(changes ...DetailedChange) *EnvelopeBuilder {
	b.envelope.Payload.DetailedChanges = changes
	b.envelope.Payload.Metadata.HasChanges = len(changes) > 0
	return b
}

func (b *EnvelopeBuilder) WithMetadata(metadata PayloadMetadata) *EnvelopeBuilder {
	b.envelope.Payload.Metadata = metadata
	return b
}

func (b *EnvelopeBuilder) Build() *Envelope {
	if b.envelope.MessageID == "" {
		b.envelope.MessageID = uuid.NewString()
	}
	if b.envelope.Timestamp.IsZero() {
		b.envelope.Timestamp = time.Now()
	}
	return b.envelope
}
