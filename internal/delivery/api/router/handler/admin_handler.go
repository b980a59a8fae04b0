package handler

import (
	"log/slog"
	"net/http"

	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/response"
	"foodorder/internal/domain/entity"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	AdminUC usecase.AdminUsecase
	AuditUC usecase.AuditUsecase
	Logger  *slog.Logger
}

// AdminHandler serves the superadmin user management and audit endpoints.
type AdminHandler struct {
	adminUC usecase.AdminUsecase
	auditUC usecase.AuditUsecase
	logger  *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		adminUC: params.AdminUC,
		auditUC: params.AuditUC,
		logger:  params.Logger,
	}
}

type PromoteUserRequest struct {
	Email         string   `json:"email" validate:"required,email"`
	RestaurantIDs []string `json:"restaurant_ids" validate:"required,min=1"`
}

type ChangeRoleRequest struct {
	Role          string   `json:"role" validate:"required"`
	RestaurantIDs []string `json:"restaurant_ids"`
	Reason        string   `json:"reason"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	offset, limit, err := pageParams(c)
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.adminUC.ListUsers(c.Request().Context(), identity, offset, limit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, response.Page{Items: mapSlice(page.Users, newUserResponse), Total: page.Total})
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	user, err := h.adminUC.GetUser(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// PromoteUser makes the account with the given email a restaurant_admin.
func (h *AdminHandler) PromoteUser(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req PromoteUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.adminUC.PromoteToRestaurantAdmin(c.Request().Context(), identity, usecase.PromoteUserInput{
		Email:         req.Email,
		RestaurantIDs: req.RestaurantIDs,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req ChangeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.adminUC.ChangeRole(c.Request().Context(), identity, c.Param("id"), usecase.ChangeRoleInput{
		Role:          entity.Role(req.Role),
		RestaurantIDs: req.RestaurantIDs,
		Reason:        req.Reason,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// RevokeTokens invalidates all sessions of the user.
func (h *AdminHandler) RevokeTokens(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req ReasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.adminUC.RevokeTokens(c.Request().Context(), identity, c.Param("id"), req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

func (h *AdminHandler) DisableUser(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req ReasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.adminUC.DisableUser(c.Request().Context(), identity, c.Param("id"), req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// ListAudit returns the audit log, newest first.
func (h *AdminHandler) ListAudit(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	offset, limit, err := pageParams(c)
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.auditUC.List(c.Request().Context(), identity, offset, limit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, response.Page{Items: mapSlice(page.Entries, newAuditEntryResponse), Total: page.Total})
}
