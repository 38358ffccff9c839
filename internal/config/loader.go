package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"calsync/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("transport.type", constants.TransportTypeRedis)
	viper.SetDefault("transport.redis.enabled", true)
	viper.SetDefault("transport.redis.connect_timeout", constants.DefaultRedisConnectTimeout)
	viper.SetDefault("transport.redis.channels", []string{
		constants.ChannelMatchUpdatesV2,
		constants.ChannelMatchUpdatesV1,
		constants.ChannelProcessorState,
		constants.ChannelSystemAlerts,
	})
	viper.SetDefault("logo.timeout", constants.DefaultLogoTimeout)
	viper.SetDefault("logo.cache_size", constants.DefaultLogoCacheSize)
	viper.SetDefault("logo.rate_rps", constants.DefaultLogoRateRPS)
	viper.SetDefault("logo.rate_burst", constants.DefaultLogoRateBurst)
	viper.SetDefault("calendar.timeout", constants.DefaultSyncTimeout)
	viper.SetDefault("logging.level", "info")
}

func bindEnvVariables() {
	viper.BindEnv("transport.type", "TRANSPORT_TYPE")
	viper.BindEnv("transport.redis.url", "TRANSPORT_REDIS_URL")
	viper.BindEnv("transport.redis.enabled", "TRANSPORT_REDIS_ENABLED")
	viper.BindEnv("transport.redis.connect_timeout", "TRANSPORT_REDIS_CONNECT_TIMEOUT")
	viper.BindEnv("transport.kafka.brokers", "TRANSPORT_KAFKA_BROKERS")
	viper.BindEnv("transport.kafka.group_id", "TRANSPORT_KAFKA_GROUP_ID")

	viper.BindEnv("logo.url", "LOGO_COMBINER_URL")
	viper.BindEnv("logo.timeout", "LOGO_COMBINER_TIMEOUT")

	viper.BindEnv("calendar.sync_url", "CALENDAR_SYNC_URL")

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("TRANSPORT_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Transport.Kafka.Brokers = brokers
		}
	}

	return nil
}
