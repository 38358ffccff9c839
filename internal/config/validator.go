package config

import (
	"fmt"
	"strings"

	"calsync/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateTransport(cfg.Transport); err != nil {
		errors = append(errors, err)
	}

	if err := validateLogo(cfg.Logo); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	return nil
}

func validateTransport(cfg TransportConfig) error {
	switch cfg.Type {
	case constants.TransportTypeRedis:
		return validateRedis(cfg.Redis)
	case constants.TransportTypeKafka:
		return validateKafka(cfg.Kafka)
	case "":
		return &ValidationError{
			Field:   "transport.type",
			Message: "transport type is required",
		}
	default:
		return &ValidationError{
			Field:   "transport.type",
			Message: fmt.Sprintf("unknown transport type %q", cfg.Type),
		}
	}
}

func validateRedis(cfg RedisConfig) error {
	if !cfg.Enabled {
		// Disabled transport is a supported configuration, not an error.
		return nil
	}

	if cfg.URL == "" {
		return &ValidationError{
			Field:   "transport.redis.url",
			Message: "redis URL is required when the transport is enabled",
		}
	}

	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return &ValidationError{
			Field:   "transport.redis.url",
			Message: fmt.Sprintf("redis URL must start with redis:// or rediss://, got %q", cfg.URL),
		}
	}

	if len(cfg.Channels) == 0 {
		return &ValidationError{
			Field:   "transport.redis.channels",
			Message: "at least one channel is required",
		}
	}

	return nil
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "transport.kafka.brokers",
			Message: "at least one broker is required",
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "transport.kafka.group_id",
			Message: "consumer group ID is required",
		}
	}

	if len(cfg.Topics) == 0 {
		return &ValidationError{
			Field:   "transport.kafka.topics",
			Message: "at least one topic is required",
		}
	}

	return nil
}

func validateLogo(cfg LogoConfig) error {
	if cfg.URL == "" {
		// No logo service configured; enrichment is skipped.
		return nil
	}

	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return &ValidationError{
			Field:   "logo.url",
			Message: fmt.Sprintf("logo service URL must start with http:// or https://, got %q", cfg.URL),
		}
	}

	if cfg.CacheSize < 0 {
		return &ValidationError{
			Field:   "logo.cache_size",
			Message: "cache size cannot be negative",
		}
	}

	return nil
}
