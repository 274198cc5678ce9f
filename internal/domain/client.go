package domain

import "time"

// Client is a registered API client that can obtain tokens.
type Client struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Name       string    `json:"name"`
	SecretHash string    `json:"secret_hash"`
	Authority  string    `json:"authority,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetClientID satisfies Identity.
func (c *Client) GetClientID() string {
	return c.ClientID
}
