package handler

import (
	"time"

	"foodorder/internal/domain/entity"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	RestaurantIDs []string   `json:"restaurant_ids"`
	TokenVersion  int        `json:"token_version"`
	Disabled      bool       `json:"disabled"`
	Verified      bool       `json:"verified"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newUserResponse(u *entity.User) UserResponse {
	restaurantIDs := u.RestaurantIDs
	if restaurantIDs == nil {
		restaurantIDs = []string{}
	}

	return UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role.String(),
		RestaurantIDs: restaurantIDs,
		TokenVersion:  u.TokenVersion,
		Disabled:      u.Disabled,
		Verified:      u.Verified,
		VerifiedAt:    u.VerifiedAt,
		CreatedAt:     u.CreatedAt,
	}
}

type RestaurantResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	OwnerEmail  string    `json:"owner_email,omitempty"`
	Approved    bool      `json:"approved"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newRestaurantResponse(r *entity.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		OwnerEmail:  r.OwnerEmail,
		Approved:    r.Approved,
		Disabled:    r.Disabled,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MenuItemResponse renders prices with two decimals.
type MenuItemResponse struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	Available    bool   `json:"available"`
}

func newMenuItemResponse(m *entity.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:           m.ID.String(),
		RestaurantID: m.RestaurantID.String(),
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price.StringFixed(2),
		Available:    m.Available,
	}
}

type OrderLineResponse struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	UserEmail    string              `json:"user_email"`
	RestaurantID string              `json:"restaurant_id"`
	Items        []OrderLineResponse `json:"items"`
	TotalAmount  string              `json:"total_amount"`
	Status       string              `json:"status"`
	Reason       string              `json:"reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func newOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, OrderLineResponse{
			ItemID:    line.ItemID.String(),
			ItemName:  line.ItemName,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:           o.ID.String(),
		UserID:       o.UserID.String(),
		UserEmail:    o.UserEmail,
		RestaurantID: o.RestaurantID.String(),
		Items:        items,
		TotalAmount:  o.TotalAmount.StringFixed(2),
		Status:       o.Status.String(),
		Reason:       o.Reason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

type AuditEntryResponse struct {
	ID           string         `json:"id"`
	ActorEmail   string         `json:"actor_email"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Before       map[string]any `json:"before"`
	After        map[string]any `json:"after"`
	Reason       string         `json:"reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func newAuditEntryResponse(e *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:           e.ID.String(),
		ActorEmail:   e.ActorEmail,
		Action:       string(e.Action),
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Before:       e.Before,
		After:        e.After,
		Reason:       e.Reason,
		CreatedAt:    e.CreatedAt,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}

	return out
}

// ReasonRequest carries the optional reason of a destructive action.
type ReasonRequest struct {
	Reason string `json:"reason" query:"reason"`
}

// pageParams reads offset and limit from the query string.
func pageParams(c echo.Context) (offset, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).
		BindError()

	return offset, limit, errors.WithStack(err)
}

// statusParam reads the optional status filter.
func statusParam(c echo.Context) *entity.OrderStatus {
	raw := c.QueryParam("status")
	if raw == "" {
		return nil
	}
	status := entity.OrderStatus(raw)

	return &status
}

func listOrdersInput(c echo.Context) (usecase.ListOrdersInput, error) {
	offset, limit, err := pageParams(c)
	if err != nil {
		return usecase.ListOrdersInput{}, err
	}

	return usecase.ListOrdersInput{Status: statusParam(c), Offset: offset, Limit: limit}, nil
}
