package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Ctx   = context.Background()
	Redis *redis.Client
)

func InitRedis() {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := Redis.Ping(Ctx).Err(); err != nil {
		log.Fatal("Redis tidak nyambung:", err)
	}

	log.Println("Redis connected (DB", db, ")")
}

// SeenWebhookEvent marks a LINE webhook event id as processed and reports
// whether it was seen before. LINE redelivers events it thinks were lost,
// so redeliveries must not book or cancel twice. SET NX is atomic, jadi
// dua delivery paralel pun cuma satu yang lolos.
func SeenWebhookEvent(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, nil
	}

	ok, err := Redis.SetNX(ctx, "webhook:event:"+eventID, 1, time.Hour).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
