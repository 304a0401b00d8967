package events

import (
	"context"
	"encoding/json"

	"p2p-lending-backend/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisPublisher publishes each event as JSON on a pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *logrus.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *logrus.Logger) *RedisPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, log: log}
}

func (p *RedisPublisher) Emit(ctx context.Context, e event.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		p.log.WithError(err).WithField("type", e.Type).Warn("events: marshal failed")
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{"type": e.Type, "channel": p.channel}).Error("events: publish failed")
	}
}
