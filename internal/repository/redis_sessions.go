package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
)

// RedisSessionRepository stores sessions under their token with a TTL
// matching the expiry, plus a per-user token set used to count active
// sessions. Tokens whose session key has expired are pruned from the
// set lazily during ActiveSessions.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) repository.SessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(token string) string       { return "wefn:session:" + token }
func userSessionsKey(userID string) string { return "wefn:sessions:" + userID }

func (r *RedisSessionRepository) CreateSession(ctx context.Context, s *models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	if err := r.client.Set(ctx, sessionKey(s.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := r.client.SAdd(ctx, userSessionsKey(s.UserID), s.Token).Err(); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionRepository) DeleteSession(ctx context.Context, token string) error {
	s, err := r.SessionByToken(ctx, token)
	if err != nil {
		return err
	}
	if s != nil {
		if err := r.client.SRem(ctx, userSessionsKey(s.UserID), token).Err(); err != nil {
			return fmt.Errorf("unindex session: %w", err)
		}
	}
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) ActiveSessions(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	tokens, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var active []*models.Session
	var stale []string
	for _, token := range tokens {
		s, err := r.SessionByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if s == nil || s.Expired(now) {
			stale = append(stale, token)
			continue
		}
		active = append(active, s)
	}
	if len(stale) > 0 {
		members := make([]interface{}, len(stale))
		for i, token := range stale {
			members[i] = token
		}
		if err := r.client.SRem(ctx, userSessionsKey(userID), members...).Err(); err != nil {
			return nil, fmt.Errorf("prune sessions: %w", err)
		}
	}
	return active, nil
}
