// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes committed contract calls to outside listeners
// such as live dashboards.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/ledger"
)

// Event types
const (
	TypePollCreated = "poll.created"
	TypeVoteCast    = "vote.cast"
	TypePollEnded   = "poll.ended"
	TypeOptedIn     = "account.opted_in"
)

// DefaultChannel is the Redis channel events go to when none is configured.
const DefaultChannel = "pollchain:events"

type Event struct {
	Type      string            `json:"type"`
	Instance  string            `json:"app_id"`
	TxID      string            `json:"tx_id"`
	Sender    string            `json:"sender"`
	Method    string            `json:"method"`
	Round     uint64            `json:"round"`
	Timestamp uint64            `json:"timestamp"`
	Args      map[string]string `json:"args,omitempty"`
}

// FromReceipt builds the event for a committed call.
func FromReceipt(r ledger.Receipt) Event {
	return Event{
		Type:      TypeFor(r.Method),
		Instance:  r.Instance,
		TxID:      r.TxID,
		Sender:    r.Sender,
		Method:    r.Method,
		Round:     r.Round,
		Timestamp: r.Timestamp,
		Args:      r.Args,
	}
}

// TypeFor maps an ABI method name to its event type.
func TypeFor(method string) string {
	switch method {
	case contract.MethodCreatePoll:
		return TypePollCreated
	case contract.MethodVote:
		return TypeVoteCast
	case contract.MethodEndPoll:
		return TypePollEnded
	case contract.MethodOptIn:
		return TypeOptedIn
	default:
		return "call." + method
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// RedisPublisher sends events as JSON over Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to the Redis server at url.
func NewRedisPublisher(url, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: redis.NewClient(opts), channel: channel}, nil
}

// Channel is the pub/sub channel events go to.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Ping checks that the server is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher writes events to the structured log. It is used when no
// Redis server is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "event",
		"type", e.Type,
		"app_id", e.Instance,
		"tx_id", e.TxID,
		"sender", e.Sender,
		"round", e.Round,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
