package constants

import "time"

const (
	DefaultRedisConnectTimeout = 5 * time.Second
	DefaultLogoTimeout         = 10 * time.Second
	DefaultSyncTimeout         = 30 * time.Second
)

const (
	// Channel layout: enhanced schema first, legacy fallbacks, then the
	// auxiliary lifecycle channels. Order is the subscription order only;
	// routing is driven by the envelope's schema_version.
	ChannelMatchUpdatesV2 = "fogis:matches:updates:v2"
	ChannelMatchUpdatesV1 = "fogis:matches:updates"
	ChannelProcessorState = "fogis:processor:status"
	ChannelSystemAlerts   = "fogis:system:alerts"
)

const (
	SchemaVersionEnhanced  = "2.0"
	SchemaVersionLegacyV15 = "1.5"
	SchemaVersionLegacyV1  = "1.0"
)

const (
	DefaultLogoCacheSize = 512
	DefaultLogoRateRPS   = 5
	DefaultLogoRateBurst = 10
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultTruncateLen = 100
)

const (
	TransportTypeRedis = "redis"
	TransportTypeKafka = "kafka"
)
