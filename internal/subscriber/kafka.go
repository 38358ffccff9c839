package subscriber

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"calsync/internal/config"
	"calsync/internal/logger"
	"calsync/pkg/metrics"
)

// KafkaSubscriber offers the same contract over Kafka topics for deployments
// that front the match processor with a broker instead of Redis pub/sub. One
// reader per topic; handler calls are serialized so cross-topic processing
// still happens one message at a time.
type KafkaSubscriber struct {
	cfg     config.KafkaConfig
	handler HandlerFunc
	logger  logger.Logger

	mu        sync.Mutex
	state     State
	startTime time.Time
	cancel    context.CancelFunc
	readers   []*kafka.Reader
	wg        sync.WaitGroup

	handleMu   sync.Mutex
	reconnects atomic.Uint64
}

func NewKafkaSubscriber(cfg config.TransportConfig, handler HandlerFunc, log logger.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{
		cfg:     cfg.Kafka,
		handler: handler,
		logger:  log,
		state:   StateDisconnected,
	}
}

func (s *KafkaSubscriber) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.startTime = time.Now()
	s.state = StateSubscribed
	s.mu.Unlock()

	metrics.ConnectionState.Set(1)

	for _, topic := range s.cfg.Topics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  s.cfg.Brokers,
			GroupID:  s.cfg.GroupID,
			Topic:    topic,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})

		s.mu.Lock()
		s.readers = append(s.readers, reader)
		s.mu.Unlock()

		s.wg.Add(1)
		go s.consume(runCtx, reader, topic)
	}

	return nil
}

func (s *KafkaSubscriber) consume(ctx context.Context, reader *kafka.Reader, topic string) {
	defer s.wg.Done()

	s.logger.Infow("Started consuming",
		"topic", topic,
		"brokers", s.cfg.Brokers,
		"group_id", s.cfg.GroupID,
	)

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Infow("Stopped consuming",
					"topic", topic,
					"reason", "context canceled",
				)
				return
			}
			s.reconnects.Add(1)
			metrics.ReconnectsTotal.Inc()
			s.logger.Errorw("Error fetching kafka message",
				"error", err,
				"topic", topic,
			)
			time.Sleep(time.Second)
			continue
		}

		s.handleMu.Lock()
		s.handler(ctx, m.Topic, m.Value)
		s.handleMu.Unlock()

		if err := reader.CommitMessages(ctx, m); err != nil {
			s.logger.Errorw("Failed to commit message",
				"error", err,
				"topic", topic,
			)
		}
	}
}

func (s *KafkaSubscriber) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	readers := s.readers
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, reader := range readers {
		reader.Close()
	}
	s.wg.Wait()

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	metrics.ConnectionState.Set(0)

	s.logger.Infow("Subscription stopped")
}

func (s *KafkaSubscriber) Status() Status {
	s.mu.Lock()
	state := s.state
	startTime := s.startTime
	s.mu.Unlock()

	var uptime float64
	if !startTime.IsZero() {
		uptime = time.Since(startTime).Seconds()
	}

	return Status{
		State:         state.String(),
		Enabled:       true,
		Connected:     state == StateSubscribed,
		Subscribed:    state == StateSubscribed,
		Channels:      s.cfg.Topics,
		Reconnects:    s.reconnects.Load(),
		UptimeSeconds: uptime,
	}
}
