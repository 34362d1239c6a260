package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 会话登记表
type Store interface {
	Save(ctx context.Context, c *Claims) error
	// Active 会话仍然有效（未吊销、未过期）
	Active(ctx context.Context, c *Claims) (bool, error)
	Revoke(ctx context.Context, c *Claims) error
	// RevokeUser 吊销该用户的全部会话（注销账户时使用）
	RevokeUser(ctx context.Context, userID string) error
}

func sessionKey(sid string) string     { return "warbler:session:" + sid }
func userSessionsKey(uid string) string { return "warbler:user:sessions:" + uid }

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store { return &redisStore{rdb: rdb} }

func (s *redisStore) Save(ctx context.Context, c *Claims) error {
	ttl := time.Until(c.ExpiresAt.Time)
	if ttl <= 0 {
		return ErrInvalidToken
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(c.SessionID), c.UserID, ttl)
	pipe.SAdd(ctx, userSessionsKey(c.UserID), c.SessionID)
	pipe.Expire(ctx, userSessionsKey(c.UserID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Active(ctx context.Context, c *Claims) (bool, error) {
	uid, err := s.rdb.Get(ctx, sessionKey(c.SessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return uid == c.UserID, nil
}

func (s *redisStore) Revoke(ctx context.Context, c *Claims) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(c.SessionID))
	pipe.SRem(ctx, userSessionsKey(c.UserID), c.SessionID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) RevokeUser(ctx context.Context, userID string) error {
	sids, err := s.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, sessionKey(sid))
	}
	keys = append(keys, userSessionsKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}

// NopStore Redis 关闭时使用：token 在过期前始终有效
type NopStore struct{}

func (NopStore) Save(context.Context, *Claims) error           { return nil }
func (NopStore) Active(context.Context, *Claims) (bool, error) { return true, nil }
func (NopStore) Revoke(context.Context, *Claims) error         { return nil }
func (NopStore) RevokeUser(context.Context, string) error      { return nil }
