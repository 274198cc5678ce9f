package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientauth/client-auth/internal/domain"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

type countingRepo struct {
	mu      sync.Mutex
	clients map[string]domain.Client
	reads   int
}

func newCountingRepo(clients ...domain.Client) *countingRepo {
	r := &countingRepo{clients: map[string]domain.Client{}}
	for _, c := range clients {
		r.clients[c.ClientID] = c
	}
	return r
}

func (r *countingRepo) Create(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ClientID]; ok {
		return ErrClientExists
	}
	r.clients[client.ClientID] = *client
	return nil
}

func (r *countingRepo) Update(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ClientID]; !ok {
		return apperrors.ErrNotFound
	}
	r.clients[client.ClientID] = *client
	return nil
}

func (r *countingRepo) GetByClientID(_ context.Context, clientID string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	c, ok := r.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", clientID, apperrors.ErrNotFound)
	}
	return &c, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedClientRepository_ReadThrough(t *testing.T) {
	mr, rdb := newTestRedis(t)
	inner := newCountingRepo(domain.Client{ClientID: "client-42", Name: "svc", Authority: "ROLE_USER", Active: true})
	repo := NewCachedClientRepository(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	first, err := repo.GetByClientID(ctx, "client-42")
	require.NoError(t, err)
	second, err := repo.GetByClientID(ctx, "client-42")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reads)
	assert.Equal(t, first.Authority, second.Authority)
	assert.True(t, mr.Exists("client:client-42"))
	assert.Equal(t, time.Minute, mr.TTL("client:client-42"))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetByClientID(ctx, "client-42")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.reads)
}

func TestCachedClientRepository_UpdateEvicts(t *testing.T) {
	mr, rdb := newTestRedis(t)
	inner := newCountingRepo(domain.Client{ClientID: "client-42", Active: true})
	repo := NewCachedClientRepository(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	client, err := repo.GetByClientID(ctx, "client-42")
	require.NoError(t, err)
	require.True(t, mr.Exists("client:client-42"))

	client.Active = false
	require.NoError(t, repo.Update(ctx, client))
	assert.False(t, mr.Exists("client:client-42"))

	again, err := repo.GetByClientID(ctx, "client-42")
	require.NoError(t, err)
	assert.False(t, again.Active)
}

func TestCachedClientRepository_NotFoundIsNotCached(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCachedClientRepository(newCountingRepo(), rdb, time.Minute, nil)

	_, err := repo.GetByClientID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, mr.Exists("client:missing"))
}

func TestCachedClientRepository_RedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	inner := newCountingRepo(domain.Client{ClientID: "client-42"})
	repo := NewCachedClientRepository(inner, rdb, time.Minute, nil)
	mr.Close()

	client, err := repo.GetByClientID(context.Background(), "client-42")
	require.NoError(t, err)
	assert.Equal(t, "client-42", client.ClientID)
}

func TestCachedClientRepository_CorruptEntryRefetched(t *testing.T) {
	mr, rdb := newTestRedis(t)
	inner := newCountingRepo(domain.Client{ClientID: "client-42", Name: "svc"})
	repo := NewCachedClientRepository(inner, rdb, time.Minute, nil)
	require.NoError(t, mr.Set("client:client-42", "{not json"))

	client, err := repo.GetByClientID(context.Background(), "client-42")
	require.NoError(t, err)
	assert.Equal(t, "svc", client.Name)
	assert.Equal(t, 1, inner.reads)
}

func TestNewCachedClientRepository_Disabled(t *testing.T) {
	inner := newCountingRepo()
	assert.Same(t, ClientRepository(inner), NewCachedClientRepository(inner, nil, time.Minute, nil))

	_, rdb := newTestRedis(t)
	assert.Same(t, ClientRepository(inner), NewCachedClientRepository(inner, rdb, 0, nil))
}
