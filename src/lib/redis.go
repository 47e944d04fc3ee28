package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"portal/src/notify"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// NotificationsChannel is the well-known ambient broadcast channel name.
const NotificationsChannel = "portal:notifications"

// RedisPublisher relays notification snapshots over Redis Pub/Sub so
// observers outside this process still see every change.
type RedisPublisher struct {
	inner *redis.Client
}

func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{inner: GetRedisClient()}
}

func (p *RedisPublisher) Name() string {
	return "Redis"
}

func (p *RedisPublisher) Publish(s notify.Snapshot) {
	if p.inner == nil {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		log.Printf("[redis] Error serializing snapshot: %s\n", err.Error())
		return
	}
	if err := p.inner.Publish(context.Background(), NotificationsChannel, b).Err(); err != nil {
		log.Printf("[redis] Error publishing snapshot: %s\n", err.Error())
	}
}
