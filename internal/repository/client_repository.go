package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientauth/client-auth/internal/domain"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

// ErrClientExists is returned when the client_id is already registered.
var ErrClientExists = errors.New("client already exists")

const uniqueViolation = "23505"

// ClientRepository defines persistence access for API clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByClientID(ctx context.Context, clientID string) (*domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, client_id, name, secret_hash, authority, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	if client.ID == "" {
		client.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.ClientID,
		client.Name,
		client.SecretHash,
		client.Authority,
		client.Active,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("client %q: %w", client.ClientID, ErrClientExists)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, secret_hash=$2, authority=$3, active=$4, updated_at=NOW()
        WHERE client_id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		client.Name,
		client.SecretHash,
		client.Authority,
		client.Active,
		client.ClientID,
	).Scan(&client.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("client %q: %w", client.ClientID, apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *clientRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Client, error) {
	const query = `
        SELECT id, client_id, name, secret_hash, authority, active, created_at, updated_at
        FROM clients WHERE client_id=$1`

	var client domain.Client
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&client.ID,
		&client.ClientID,
		&client.Name,
		&client.SecretHash,
		&client.Authority,
		&client.Active,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", clientID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select client: %w", err)
	}
	return &client, nil
}
