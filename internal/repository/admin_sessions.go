package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// AdminSessionRepo keeps chat admin sessions in Redis. A session is a
// key with TTL; expiry logs the admin out without any cleanup job.
type AdminSessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAdminSessionRepo(rdb *redis.Client, ttl time.Duration) *AdminSessionRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AdminSessionRepo{rdb: rdb, ttl: ttl}
}

func (r *AdminSessionRepo) key(userID string) string {
	return "admin:session:" + userID
}

func (r *AdminSessionRepo) Grant(ctx context.Context, userID string) error {
	return r.rdb.Set(ctx, r.key(userID), 1, r.ttl).Err()
}

func (r *AdminSessionRepo) Active(ctx context.Context, userID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
