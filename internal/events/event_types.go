package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/clientauth/client-auth/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClientRegistered EventType = "client_registered"
	EventTokenIssued      EventType = "token_issued"
	EventTokenRefreshed   EventType = "token_refreshed"
	EventLoginFailed      EventType = "login_failed"
	EventAuthorityChanged EventType = "authority_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClientID  string      `json:"client_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, clientID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ClientID:  clientID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ClientRegisteredPayload payload.
type ClientRegisteredPayload struct {
	Name      string `json:"name"`
	Authority string `json:"authority"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	Category  domain.TokenCategory `json:"category"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// AuthorityChangedPayload payload.
type AuthorityChangedPayload struct {
	Authority string `json:"authority"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}
