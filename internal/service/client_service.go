package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clientauth/client-auth/internal/auth"
	"github.com/clientauth/client-auth/internal/config"
	"github.com/clientauth/client-auth/internal/domain"
	"github.com/clientauth/client-auth/internal/events"
	"github.com/clientauth/client-auth/internal/repository"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

const (
	maxClientIDLength = 128
	minSecretLength   = 8
)

// ClientService coordinates client registration, login and token refresh.
type ClientService struct {
	clients    repository.ClientRepository
	tokens     *auth.TokenService
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// ClientDependencies encapsulates collaborators of the client service.
type ClientDependencies struct {
	ClientRepo repository.ClientRepository
	Tokens     *auth.TokenService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput describes a new client. Self-registered clients always get
// auth.RoleUser; other authorities are granted through SetAuthority.
type RegisterInput struct {
	ClientID string
	Name     string
	Secret   string
}

// NewClientService builds the service.
func NewClientService(cfg config.AuthConfig, deps ClientDependencies) *ClientService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		clients:    deps.ClientRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Register creates a new client with the auth.RoleUser authority.
func (s *ClientService) Register(ctx context.Context, in RegisterInput) (*domain.Client, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Name = strings.TrimSpace(in.Name)

	details := map[string]any{}
	if in.ClientID == "" || len(in.ClientID) > maxClientIDLength {
		details["client_id"] = "required, at most 128 characters"
	}
	if in.Name == "" {
		details["name"] = "required"
	}
	if len(in.Secret) < minSecretLength {
		details["secret"] = "at least 8 characters"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid client registration", details)
	}

	hash, err := auth.HashSecret(in.Secret, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	client := &domain.Client{
		ClientID:   in.ClientID,
		Name:       in.Name,
		SecretHash: hash,
		Authority:  auth.RoleUser,
		Active:     true,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, repository.ErrClientExists) {
			return nil, apperrors.NewConflict("client already registered", map[string]any{"client_id": in.ClientID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventClientRegistered, client.ClientID, events.ClientRegisteredPayload{
		Name:      client.Name,
		Authority: client.Authority,
	}))
	return client, nil
}

// Login verifies the client secret and issues an access and a refresh token.
func (s *ClientService) Login(ctx context.Context, clientID, secret string) (*domain.Client, *domain.TokenPair, error) {
	client, err := s.clients.GetByClientID(ctx, clientID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, apperrors.MapError(err)
	}
	if client == nil {
		// Unknown ids cost one bcrypt comparison, like a wrong secret.
		_ = auth.CompareSecret(s.unknownClientHash(), secret)
		s.loginFailed(ctx, clientID, "unknown client")
		return nil, nil, errInvalidCredentials()
	}
	if err := auth.CompareSecret(client.SecretHash, secret); err != nil {
		s.loginFailed(ctx, clientID, "secret mismatch")
		return nil, nil, errInvalidCredentials()
	}
	if !client.Active {
		s.loginFailed(ctx, clientID, "inactive client")
		return nil, nil, errInvalidCredentials()
	}

	access, accessExp, err := s.issue(ctx, client, domain.TokenCategoryAccess)
	if err != nil {
		return nil, nil, err
	}
	refresh, refreshExp, err := s.issue(ctx, client, domain.TokenCategoryRefresh)
	if err != nil {
		return nil, nil, err
	}

	return client, &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh issues a new access token for a valid refresh token. The refresh
// token itself is returned unchanged.
func (s *ClientService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	status, claims := s.tokens.Inspect(refreshToken)
	switch status {
	case auth.TokenValid:
	case auth.TokenExpired:
		return nil, apperrors.NewUnauthorized("refresh token expired")
	default:
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	client, err := s.clients.GetByClientID(ctx, claims.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("client not found")
		}
		return nil, apperrors.MapError(err)
	}
	if !client.Active {
		return nil, apperrors.NewUnauthorized("client inactive")
	}

	access, accessExp, err := s.tokens.IssueToken(client, domain.TokenCategoryAccess, authorityClaims(client))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventTokenRefreshed, client.ClientID, events.TokenIssuedPayload{
		Category:  domain.TokenCategoryAccess,
		ExpiresAt: accessExp,
	}))

	pair := &domain.TokenPair{
		AccessToken:     access,
		AccessExpiresAt: accessExp,
		RefreshToken:    refreshToken,
	}
	if claims.ExpiresAt != nil {
		pair.RefreshExpiresAt = claims.ExpiresAt.Time
	}
	return pair, nil
}

// Get returns a client by its client_id.
func (s *ClientService) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clients.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": clientID})
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// SetActive enables or disables a client. Disabled clients can not log in or refresh.
func (s *ClientService) SetActive(ctx context.Context, clientID string, active bool) (*domain.Client, error) {
	client, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client.Active = active
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// SetAuthority replaces the authority carried by a client's future tokens.
// Tokens already issued keep the authority they were signed with.
func (s *ClientService) SetAuthority(ctx context.Context, clientID, authority string) (*domain.Client, error) {
	authority = strings.TrimSpace(authority)
	if !auth.KnownAuthority(authority) {
		return nil, apperrors.NewValidationError("unknown authority", map[string]any{"authority": authority})
	}
	client, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client.Authority = authority
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventAuthorityChanged, client.ClientID, events.AuthorityChangedPayload{
		Authority: authority,
	}))
	return client, nil
}

// Tokens exposes the underlying token service for middleware usage.
func (s *ClientService) Tokens() *auth.TokenService {
	return s.tokens
}

func (s *ClientService) issue(ctx context.Context, client *domain.Client, category domain.TokenCategory) (string, time.Time, error) {
	token, exp, err := s.tokens.IssueToken(client, category, authorityClaims(client))
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventTokenIssued, client.ClientID, events.TokenIssuedPayload{
		Category:  category,
		ExpiresAt: exp,
	}))
	return token, exp, nil
}

// authorityClaims is where the auth claim gets populated; the token service never sets it itself.
func authorityClaims(client *domain.Client) map[string]any {
	if client.Authority == "" {
		return nil
	}
	return map[string]any{auth.ClaimAuthority: client.Authority}
}

func errInvalidCredentials() error {
	return apperrors.NewUnauthorized("invalid credentials")
}

func (s *ClientService) unknownClientHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashSecret("unknown-client-placeholder", s.bcryptCost)
		if err != nil {
			s.logger.Warn("placeholder secret hash failed", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *ClientService) loginFailed(ctx context.Context, clientID, reason string) {
	s.publish(ctx, events.NewEvent(events.EventLoginFailed, clientID, events.LoginFailedPayload{Reason: reason}))
}

func (s *ClientService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
