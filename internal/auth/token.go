package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/clientauth/client-auth/internal/domain"
)

const (
	// ClaimClientID carries the client identifier. It duplicates "sub"; consumers read either.
	ClaimClientID = "clientId"
	// ClaimAuthority carries the single authority granted to the token.
	ClaimAuthority = "auth"

	// BearerPrefix is the exact scheme prefix expected in the Authorization header.
	BearerPrefix = "Bearer "

	// MinSecretBytes is the HS256 key size floor.
	MinSecretBytes = 32
)

var (
	ErrMissingSecret  = errors.New("jwt secret is required")
	ErrInvalidSecret  = errors.New("jwt secret is not valid base64")
	ErrSecretTooShort = fmt.Errorf("jwt secret must decode to at least %d bytes", MinSecretBytes)
	ErrInvalidTTL     = errors.New("token lifetimes must be positive")
	ErrEmptyClientID  = errors.New("identity has no client id")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrNotBearer      = errors.New("authorization header is not a bearer token")
	ErrNoAuthority    = errors.New("token carries no authority")
)

// TokenStatus is the outcome of verifying a token.
type TokenStatus int

const (
	TokenMalformed TokenStatus = iota
	TokenExpired
	TokenValid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "malformed"
	}
}

// Claims describes the JWT payload.
type Claims struct {
	ClientID  string `json:"clientId"`
	Authority string `json:"auth,omitempty"`
	jwt.RegisteredClaims
}

// Authentication is what a verified token proves about the caller.
type Authentication struct {
	Principal   string
	Authorities []string
	Credentials string
}

// HasAuthority reports whether role is one of the granted authorities.
func (a *Authentication) HasAuthority(role string) bool {
	if a == nil {
		return false
	}
	for _, granted := range a.Authorities {
		if granted == role {
			return true
		}
	}
	return false
}

// TokenConfig holds the inputs needed to build a TokenService.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *TokenService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// TokenService issues and verifies HS256 tokens. It is immutable after
// construction and safe for concurrent use.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
	parser     *jwt.Parser
}

// NewTokenService decodes the secret and builds the service.
func NewTokenService(cfg TokenConfig, opts ...Option) (*TokenService, error) {
	key, err := DecodeSecret(cfg.Secret)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, ErrInvalidTTL
	}

	s := &TokenService{
		key:        key,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	return s, nil
}

// DecodeSecret turns a base64 secret (standard or URL alphabet, padded or not)
// into HMAC key bytes.
func DecodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		key, err := enc.DecodeString(secret)
		if err != nil {
			continue
		}
		if len(key) < MinSecretBytes {
			return nil, ErrSecretTooShort
		}
		return key, nil
	}
	return nil, ErrInvalidSecret
}

// TTL returns the lifetime for the category. Anything but access gets the refresh lifetime.
func (s *TokenService) TTL(category domain.TokenCategory) time.Duration {
	if category == domain.TokenCategoryAccess {
		return s.accessTTL
	}
	return s.refreshTTL
}

// IssueToken signs a token for identity. extra is merged into the payload and is how
// callers attach an authority; it can not override sub, iat, exp or clientId.
func (s *TokenService) IssueToken(identity domain.Identity, category domain.TokenCategory, extra map[string]any) (string, time.Time, error) {
	if identity == nil || identity.GetClientID() == "" {
		return "", time.Time{}, ErrEmptyClientID
	}
	clientID := identity.GetClientID()

	now := s.now()
	expiresAt := now.Add(s.TTL(category))

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = clientID
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expiresAt)
	claims[ClaimClientID] = clientID

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseClaims verifies the token and returns its claims. Errors wrap
// ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) ParseClaims(tokenStr string) (*Claims, error) {
	parsed, err := s.parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrTokenMalformed)
	}
	return claims, nil
}

// Inspect verifies the token and reports which of valid, expired or malformed it is.
// Claims are only returned for valid tokens.
func (s *TokenService) Inspect(tokenStr string) (TokenStatus, *Claims) {
	claims, err := s.ParseClaims(tokenStr)
	switch {
	case err == nil:
		return TokenValid, claims
	case errors.Is(err, ErrTokenExpired):
		return TokenExpired, nil
	default:
		return TokenMalformed, nil
	}
}

// ValidateToken reports whether the token has a valid signature and has not expired.
func (s *TokenService) ValidateToken(tokenStr string) bool {
	claims, err := s.ParseClaims(tokenStr)
	switch {
	case err == nil:
		s.logger.Info("token accepted", zap.String("sub", claims.Subject))
		return true
	case errors.Is(err, ErrTokenExpired):
		s.logger.Info("token expired", zap.Error(err))
		return false
	default:
		s.logger.Info("token invalid", zap.Error(err))
		return false
	}
}

// GetAuthentication builds an Authentication from the token's auth claim.
// It returns nil, nil when the token is valid but carries no authority.
func (s *TokenService) GetAuthentication(tokenStr string) (*Authentication, error) {
	claims, err := s.ParseClaims(tokenStr)
	if err != nil {
		return nil, err
	}
	authn := authenticationFromClaims(claims, tokenStr)
	if authn == nil {
		s.logger.Info("token carries no authority", zap.String("sub", claims.Subject))
	}
	return authn, nil
}

// Authenticate verifies the bearer token in an Authorization header value once
// and returns its Authentication together with the clientId claim. It is the
// single-parse equivalent of ValidateToken, GetAuthentication and
// ClientIDFromHeader, and fails with ErrNotBearer, ErrTokenExpired,
// ErrTokenMalformed, ErrNoAuthority or ErrEmptyClientID.
func (s *TokenService) Authenticate(header string) (*Authentication, string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, "", ErrNotBearer
	}

	claims, err := s.ParseClaims(token)
	if err != nil {
		s.logger.Info("bearer token rejected", zap.Error(err))
		return nil, "", err
	}
	authn := authenticationFromClaims(claims, token)
	if authn == nil {
		s.logger.Info("token carries no authority", zap.String("sub", claims.Subject))
		return nil, "", ErrNoAuthority
	}
	if claims.ClientID == "" {
		s.logger.Info("bearer token has no client id", zap.String("sub", claims.Subject))
		return nil, "", ErrEmptyClientID
	}

	s.logger.Debug("token accepted", zap.String("sub", claims.Subject))
	return authn, claims.ClientID, nil
}

func authenticationFromClaims(claims *Claims, tokenStr string) *Authentication {
	if claims.Authority == "" {
		return nil
	}
	return &Authentication{
		Principal:   claims.Subject,
		Authorities: []string{claims.Authority},
		Credentials: tokenStr,
	}
}

// BearerToken strips the "Bearer " prefix from an Authorization header value.
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ClientIDFromHeader returns the clientId claim of the bearer token in an
// Authorization header value. Any failure, expiry included, yields false.
func (s *TokenService) ClientIDFromHeader(header string) (string, bool) {
	token, ok := BearerToken(header)
	if !ok {
		s.logger.Info("authorization header missing or not a bearer token")
		return "", false
	}

	claims, err := s.ParseClaims(token)
	if err != nil {
		s.logger.Info("bearer token rejected", zap.Error(err))
		return "", false
	}
	if claims.ClientID == "" {
		s.logger.Info("bearer token has no client id", zap.String("sub", claims.Subject))
		return "", false
	}
	return claims.ClientID, true
}
