package subscriber

import (
	"context"
)

// State is the subscription client's connection lifecycle.
type State int32

const (
	StateDisabled State = iota
	StateDisconnected
	StateConnecting
	StateSubscribed
	StateReconnecting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateReconnecting:
		return "reconnecting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// HandlerFunc receives every delivered message. It must not panic past its
// own boundary and is called synchronously, one message at a time, in
// arrival order.
type HandlerFunc func(ctx context.Context, channel string, payload []byte)

// Subscriber maintains a persistent subscription over the transport. Start
// returns immediately; delivery runs on a dedicated worker until Stop or
// context cancellation.
type Subscriber interface {
	Start(ctx context.Context) error
	Stop()
	Status() Status
}

type Status struct {
	State         string   `json:"state"`
	Enabled       bool     `json:"enabled"`
	Connected     bool     `json:"connected"`
	Subscribed    bool     `json:"subscribed"`
	Channels      []string `json:"channels"`
	Reconnects    uint64   `json:"reconnects"`
	UptimeSeconds float64  `json:"uptime_seconds"`
}
