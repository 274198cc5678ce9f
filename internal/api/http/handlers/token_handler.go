package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientauth/client-auth/internal/api/dto"
	"github.com/clientauth/client-auth/internal/service"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

// TokenHandler exposes the token endpoints.
type TokenHandler struct {
	clients *service.ClientService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(clients *service.ClientService) *TokenHandler {
	return &TokenHandler{clients: clients}
}

// Issue handles POST /auth/token.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" || req.Secret == "" {
		return apperrors.NewValidationError("client_id and secret required", nil)
	}

	client, pair, err := h.clients.Login(c.UserContext(), req.ClientID, req.Secret)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"client": dto.NewClientResponse(client),
			"auth":   dto.NewTokenResponse(pair),
		},
	})
}

// Refresh handles POST /auth/token/refresh.
func (h *TokenHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}

	pair, err := h.clients.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"auth": dto.NewTokenResponse(pair)}})
}
