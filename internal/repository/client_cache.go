package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clientauth/client-auth/internal/domain"
)

const clientCachePrefix = "client:"

// cachedClientRepository is a Redis read-through cache in front of another ClientRepository.
// Redis failures are logged and the call falls through to the wrapped repository.
type cachedClientRepository struct {
	next   ClientRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClientRepository wraps next with a Redis cache. A nil client or a
// non-positive ttl returns next unchanged.
func NewCachedClientRepository(next ClientRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ClientRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedClientRepository{next: next, redis: client, ttl: ttl, logger: logger}
}

func clientCacheKey(clientID string) string {
	return clientCachePrefix + clientID
}

func (r *cachedClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.next.Create(ctx, client)
}

func (r *cachedClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if err := r.next.Update(ctx, client); err != nil {
		return err
	}
	r.evict(ctx, client.ClientID)
	return nil
}

func (r *cachedClientRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Client, error) {
	key := clientCacheKey(clientID)

	raw, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var client domain.Client
		if jsonErr := json.Unmarshal(raw, &client); jsonErr == nil {
			return &client, nil
		}
		r.logger.Warn("discarding undecodable cached client", zap.String("client_id", clientID))
		r.evict(ctx, clientID)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("client cache read failed", zap.String("client_id", clientID), zap.Error(err))
	}

	client, err := r.next.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(client)
	if err != nil {
		r.logger.Warn("client cache encode failed", zap.String("client_id", clientID), zap.Error(err))
		return client, nil
	}
	if err := r.redis.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("client cache write failed", zap.String("client_id", clientID), zap.Error(err))
	}
	return client, nil
}

func (r *cachedClientRepository) evict(ctx context.Context, clientID string) {
	if err := r.redis.Del(ctx, clientCacheKey(clientID)).Err(); err != nil {
		r.logger.Warn("client cache evict failed", zap.String("client_id", clientID), zap.Error(err))
	}
}
