package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientauth/client-auth/internal/api/dto"
	"github.com/clientauth/client-auth/internal/auth"
	"github.com/clientauth/client-auth/internal/service"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

// ClientsHandler exposes client registration and lookup endpoints.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// Register handles POST /auth/clients/register.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	var req dto.ClientRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.clients.Register(c.UserContext(), service.RegisterInput{
		ClientID: req.ClientID,
		Name:     req.Name,
		Secret:   req.Secret,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"client": dto.NewClientResponse(client)},
	})
}

// Me handles GET /auth/me.
func (h *ClientsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	client, err := h.clients.Get(c.UserContext(), principal.ClientID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"client":      dto.NewClientResponse(client),
			"principal":   principal.Authentication.Principal,
			"authorities": principal.Authentication.Authorities,
		},
	})
}

// Get handles GET /admin/clients/:clientId.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	client, err := h.clients.Get(c.UserContext(), c.Params("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"client": dto.NewClientResponse(client)}})
}

// SetStatus handles PATCH /admin/clients/:clientId/status.
func (h *ClientsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.ClientStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return apperrors.NewValidationError("active flag required", nil)
	}

	client, err := h.clients.SetActive(c.UserContext(), c.Params("clientId"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"client": dto.NewClientResponse(client)}})
}

// SetAuthority handles PATCH /admin/clients/:clientId/authority.
func (h *ClientsHandler) SetAuthority(c *fiber.Ctx) error {
	var req dto.ClientAuthorityRequest
	if err := c.BodyParser(&req); err != nil || req.Authority == "" {
		return apperrors.NewValidationError("authority required", nil)
	}

	client, err := h.clients.SetAuthority(c.UserContext(), c.Params("clientId"), req.Authority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"client": dto.NewClientResponse(client)}})
}
