package handler

import (
	"log/slog"
	"net/http"

	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/response"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RestaurantHandlerParams holds dependencies for RestaurantHandler, injected by Fx.
type RestaurantHandlerParams struct {
	fx.In

	RestaurantUC usecase.RestaurantUsecase
	Logger       *slog.Logger
}

type RestaurantHandler struct {
	restaurantUC usecase.RestaurantUsecase
	logger       *slog.Logger
}

// NewRestaurantHandler is the constructor for RestaurantHandler
func NewRestaurantHandler(params RestaurantHandlerParams) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantUC: params.RestaurantUC,
		logger:       params.Logger,
	}
}

type CreateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=50"`
	OwnerEmail  string `json:"owner_email" validate:"omitempty,email"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
}

// ListRestaurants shows approved restaurants; a superadmin may ask for the rest.
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	identity, _ := middleware.GetIdentity(c)

	var input usecase.ListRestaurantsInput
	err := echo.QueryParamsBinder(c).
		Bool("include_unapproved", &input.IncludeUnapproved).
		Bool("include_disabled", &input.IncludeDisabled).
		Int("offset", &input.Offset).
		Int("limit", &input.Limit).
		BindError()
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.restaurantUC.ListRestaurants(c.Request().Context(), identity, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, response.Page{
		Items: mapSlice(page.Restaurants, newRestaurantResponse),
		Total: page.Total,
	})
}

func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	restaurant, err := h.restaurantUC.GetRestaurant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newRestaurantResponse(restaurant))
}

// MenuQRCode returns the PNG QR code of the public menu link.
func (h *RestaurantHandler) MenuQRCode(c echo.Context) error {
	png, err := h.restaurantUC.MenuQRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *RestaurantHandler) CreateRestaurant(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req CreateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.CreateRestaurant(c.Request().Context(), identity, usecase.CreateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		OwnerEmail:  req.OwnerEmail,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newRestaurantResponse(restaurant))
}

func (h *RestaurantHandler) UpdateRestaurant(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req UpdateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.UpdateRestaurant(c.Request().Context(), identity, c.Param("id"), usecase.UpdateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newRestaurantResponse(restaurant))
}

func (h *RestaurantHandler) ApproveRestaurant(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	restaurant, err := h.restaurantUC.ApproveRestaurant(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newRestaurantResponse(restaurant))
}

// DisableRestaurant is the soft delete behind DELETE /restaurants/:id.
func (h *RestaurantHandler) DisableRestaurant(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req ReasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.DisableRestaurant(c.Request().Context(), identity, c.Param("id"), req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newRestaurantResponse(restaurant))
}
