package database

import (
	"context"
	"encoding/json"
	"fmt"

	"connect4server/models"

	"github.com/go-redis/redis/v8"
)

const DefaultResultsChannel = "connect4:results"

// ResultPublisher hands finished games to whoever keeps records and rankings.
type ResultPublisher interface {
	Publish(ctx context.Context, result models.GameResult) error
}

type RedisResultPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisResultPublisher(rdb *redis.Client, channel string) *RedisResultPublisher {
	if channel == "" {
		channel = DefaultResultsChannel
	}
	return &RedisResultPublisher{rdb: rdb, channel: channel}
}

func (p *RedisResultPublisher) Publish(ctx context.Context, result models.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode game result: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish game result: %w", err)
	}
	return nil
}

// NopResultPublisher は Redis を使わない場合に結果を捨てる
type NopResultPublisher struct{}

func (NopResultPublisher) Publish(context.Context, models.GameResult) error {
	return nil
}
