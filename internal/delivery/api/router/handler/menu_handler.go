package handler

import (
	"log/slog"
	"net/http"

	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/response"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// MenuHandlerParams holds dependencies for MenuHandler, injected by Fx.
type MenuHandlerParams struct {
	fx.In

	MenuUC usecase.MenuUsecase
	Logger *slog.Logger
}

type MenuHandler struct {
	menuUC usecase.MenuUsecase
	logger *slog.Logger
}

// NewMenuHandler is the constructor for MenuHandler
func NewMenuHandler(params MenuHandlerParams) *MenuHandler {
	return &MenuHandler{
		menuUC: params.MenuUC,
		logger: params.Logger,
	}
}

// CreateMenuItemRequest accepts the price as a JSON number or string.
type CreateMenuItemRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
}

// ListItems is public; ?available=true hides sold out items.
func (h *MenuHandler) ListItems(c echo.Context) error {
	var onlyAvailable bool
	if err := echo.QueryParamsBinder(c).Bool("available", &onlyAvailable).BindError(); err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	items, err := h.menuUC.ListItems(c.Request().Context(), c.Param("restaurantId"), onlyAvailable)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(items, newMenuItemResponse))
}

func (h *MenuHandler) GetItem(c echo.Context) error {
	item, err := h.menuUC.GetItem(c.Request().Context(), c.Param("restaurantId"), c.Param("itemId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newMenuItemResponse(item))
}

func (h *MenuHandler) CreateItem(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req CreateMenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	item, err := h.menuUC.CreateItem(c.Request().Context(), identity, c.Param("restaurantId"), usecase.CreateMenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newMenuItemResponse(item))
}

func (h *MenuHandler) UpdateItem(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req UpdateMenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	item, err := h.menuUC.UpdateItem(c.Request().Context(), identity, c.Param("restaurantId"), c.Param("itemId"), usecase.UpdateMenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newMenuItemResponse(item))
}

func (h *MenuHandler) DeleteItem(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	if err := h.menuUC.DeleteItem(c.Request().Context(), identity, c.Param("restaurantId"), c.Param("itemId")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
