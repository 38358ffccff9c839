package subscriber

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"calsync/internal/config"
	"calsync/internal/logger"
	"calsync/pkg/metrics"
	"calsync/pkg/retry"
)

// pubsubConn is one live subscription over all channels. The dial seam exists
// so reconnect behavior is testable without a running server.
type pubsubConn interface {
	receive(ctx context.Context) (channel string, payload []byte, err error)
	close() error
}

type dialFunc func(ctx context.Context) (pubsubConn, error)

type redisConn struct {
	client *redis.Client
	pubsub *redis.PubSub
}

func (c *redisConn) receive(ctx context.Context) (string, []byte, error) {
	msg, err := c.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return "", nil, err
	}
	return msg.Channel, []byte(msg.Payload), nil
}

func (c *redisConn) close() error {
	if err := c.pubsub.Close(); err != nil {
		c.client.Close()
		return err
	}
	return c.client.Close()
}

// RedisSubscriber subscribes to the ordered channel list over Redis pub/sub.
// Connection loss is retried indefinitely with bounded exponential backoff;
// each reconnect resubscribes to the full list. Transport failure is never
// fatal to the host.
type RedisSubscriber struct {
	cfg     config.RedisConfig
	policy  retry.Policy
	handler HandlerFunc
	logger  logger.Logger

	dial dialFunc

	mu        sync.Mutex
	state     State
	startTime time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	reconnects atomic.Uint64
}

func NewRedisSubscriber(cfg config.TransportConfig, handler HandlerFunc, log logger.Logger) *RedisSubscriber {
	policy := retry.Policy{
		InitialInterval: cfg.Reconnect.InitialInterval,
		MaxInterval:     cfg.Reconnect.MaxInterval,
		Multiplier:      cfg.Reconnect.Multiplier,
	}

	s := &RedisSubscriber{
		cfg:     cfg.Redis,
		policy:  policy,
		handler: handler,
		logger:  log,
		state:   StateDisconnected,
	}
	s.dial = s.dialRedis
	return s
}

func (s *RedisSubscriber) dialRedis(ctx context.Context) (pubsubConn, error) {
	opts, err := redis.ParseURL(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	connectTimeout := s.cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	pubsub := client.Subscribe(ctx, s.cfg.Channels...)
	return &redisConn{client: client, pubsub: pubsub}, nil
}

// Start launches the receive worker. When the transport is disabled by
// configuration this is a no-op and the rest of the application keeps
// running without it.
func (s *RedisSubscriber) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.setState(StateDisabled)
		s.logger.Infow("Transport disabled by configuration, subscription inactive")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.startTime = time.Now()
	s.mu.Unlock()

	go s.run(runCtx)
	return nil
}

func (s *RedisSubscriber) run(ctx context.Context) {
	defer close(s.done)

	b := s.policy.NewBackOff()

	for {
		if ctx.Err() != nil {
			s.setState(StateStopped)
			return
		}

		s.setState(StateConnecting)
		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.setState(StateStopped)
				return
			}
			delay := b.NextBackOff()
			s.setState(StateReconnecting)
			s.reconnects.Add(1)
			metrics.ReconnectsTotal.Inc()
			s.logger.Warnw("Transport connection failed, retrying",
				"error", err,
				"retry_delay", delay,
			)
			if !sleepCtx(ctx, delay) {
				s.setState(StateStopped)
				return
			}
			continue
		}

		s.setState(StateSubscribed)
		metrics.ConnectionState.Set(1)
		s.logger.Infow("Subscribed to channels",
			"channels", s.cfg.Channels,
		)
		b.Reset()

		s.listen(ctx, conn)

		conn.close()
		metrics.ConnectionState.Set(0)

		if ctx.Err() != nil {
			s.setState(StateStopped)
			return
		}

		delay := b.NextBackOff()
		s.setState(StateReconnecting)
		s.reconnects.Add(1)
		metrics.ReconnectsTotal.Inc()
		s.logger.Warnw("Transport connection lost, reconnecting",
			"retry_delay", delay,
		)
		if !sleepCtx(ctx, delay) {
			s.setState(StateStopped)
			return
		}
	}
}

// listen pulls messages until the connection errors or the context ends.
// Handling runs inline so a slow handler applies natural backpressure and
// arrival order is preserved.
func (s *RedisSubscriber) listen(ctx context.Context, conn pubsubConn) {
	for {
		channel, payload, err := conn.receive(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Errorw("Receive failed",
					"error", err,
				)
			}
			return
		}

		s.handler(ctx, channel, payload)
	}
}

// Stop cancels the worker and waits for in-flight handling to complete.
func (s *RedisSubscriber) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel == nil {
		s.setState(StateStopped)
		return
	}

	cancel()
	if done != nil {
		<-done
	}
	s.logger.Infow("Subscription stopped")
}

func (s *RedisSubscriber) Status() Status {
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
		Enabled:       s.cfg.Enabled,
		Connected:     state == StateSubscribed,
		Subscribed:    state == StateSubscribed,
		Channels:      s.cfg.Channels,
		Reconnects:    s.reconnects.Load(),
		UptimeSeconds: uptime,
	}
}

func (s *RedisSubscriber) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
