package dto

import (
	"time"

	"github.com/clientauth/client-auth/internal/domain"
)

// ClientRegisterRequest payload for new clients.
type ClientRegisterRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Secret   string `json:"secret"`
}

// TokenRequest payload for the client credentials login.
type TokenRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

// RefreshRequest payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ClientStatusRequest payload for enabling or disabling a client.
type ClientStatusRequest struct {
	Active *bool `json:"active"`
}

// ClientAuthorityRequest payload for granting an authority.
type ClientAuthorityRequest struct {
	Authority string `json:"authority"`
}

// ClientResponse is the public view of a client. The secret hash never leaves the service.
type ClientResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Authority string    `json:"authority,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse standard response for token endpoints.
type TokenResponse struct {
	TokenType        string    `json:"token_type"`
	AccessToken      string    `json:"access_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		ClientID:  c.ClientID,
		Name:      c.Name,
		Authority: c.Authority,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

// NewTokenResponse maps a token pair.
func NewTokenResponse(p *domain.TokenPair) TokenResponse {
	return TokenResponse{
		TokenType:        "Bearer",
		AccessToken:      p.AccessToken,
		ExpiresAt:        p.AccessExpiresAt,
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}
