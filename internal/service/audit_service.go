package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clientauth/client-auth/internal/events"
)

// AuditService writes an audit log line for client and token events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventClientRegistered, a.handle)
	a.dispatcher.Subscribe(events.EventTokenIssued, a.handle)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handle)
	a.dispatcher.Subscribe(events.EventAuthorityChanged, a.handleAuthorityChanged)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("client_id", event.ClientID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleAuthorityChanged(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("client_id", event.ClientID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("client_id", event.ClientID),
		zap.Any("payload", event.Payload))
	return nil
}
