package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
)

// RedisUserRepository stores accounts under their id with a separate
// email index for lookups. Missing users are reported as nil, nil.
type RedisUserRepository struct {
	client *redis.Client
}

func NewRedisUserRepository(client *redis.Client) repository.UserRepository {
	return &RedisUserRepository{client: client}
}

func userKey(id string) string     { return "wefn:user:" + id }
func emailKey(email string) string { return "wefn:user:email:" + email }

func (r *RedisUserRepository) CreateUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.client.Set(ctx, userKey(u.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	if err := r.client.Set(ctx, emailKey(u.Email), u.ID, 0).Err(); err != nil {
		return fmt.Errorf("index user email: %w", err)
	}
	return nil
}

func (r *RedisUserRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.client.Get(ctx, emailKey(email)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	return r.UserByID(ctx, id)
}

func (r *RedisUserRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	raw, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
