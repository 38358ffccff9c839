package subscriber

import (
	"fmt"

	"calsync/internal/config"
	"calsync/internal/constants"
	"calsync/internal/logger"
)

func New(cfg config.TransportConfig, handler HandlerFunc, log logger.Logger) (Subscriber, error) {
	switch cfg.Type {
	case constants.TransportTypeRedis:
		return NewRedisSubscriber(cfg, handler, log), nil
	case constants.TransportTypeKafka:
		return NewKafkaSubscriber(cfg, handler, log), nil
	default:
		return nil, fmt.Errorf("unknown transport type: %s", cfg.Type)
	}
}
