package memory

import (
	"context"
	"encoding/json"
	"time"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// SessionRepository keeps live sessions in process memory. When a redis
// client is supplied, sessions are mirrored there best-effort so a restarted
// instance can pick up where a user left off; redis failures never surface
// to the caller.
type SessionRepository struct {
	cache *cache.Cache
	rdb   *redis.Client
	log   logger.ILogger
}

func NewSessionRepository(rdb *redis.Client, log logger.ILogger) *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		rdb:   rdb,
		log:   log,
	}
}

func (r *SessionRepository) Save(session *entity.Session) {
	session.UpdatedAt = time.Now()
	r.cache.Set(session.UserId, session, cache.DefaultExpiration)
	r.mirror(session)
}

func (r *SessionRepository) Get(userId string) (*entity.Session, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*entity.Session), true
	}
	if session := r.restore(userId); session != nil {
		r.cache.Set(userId, session, cache.DefaultExpiration)
		return session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userId string) {
	r.cache.Delete(userId)
	if r.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.rdb.Del(ctx, redisKeyPrefix+userId).Err(); err != nil {
			r.log.Warn("session", "failed to delete redis mirror", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}
}

func (r *SessionRepository) mirror(session *entity.Session) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.rdb.Set(ctx, redisKeyPrefix+session.UserId, raw, 1*time.Hour).Err(); err != nil {
		r.log.Warn("session", "failed to mirror session to redis", map[string]interface{}{
			"user_id": session.UserId,
			"error":   err.Error(),
		})
	}
}

func (r *SessionRepository) restore(userId string) *entity.Session {
	if r.rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+userId).Bytes()
	if err != nil {
		return nil
	}
	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil
	}
	return &session
}
