package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// OpenRedis connects the client shared by the idempotency store and the event
// publisher, failing fast if the server does not answer a PING.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  pingTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"addr": addr, "db": db}).Info("redis: connected")
	return r, nil
}
