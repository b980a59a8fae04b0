package handler

import (
	domainerrors "foodorder/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// bindAndValidate decodes the request into req and checks its `validate` tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
	}
	if err := c.Validate(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
	}

	return nil
}

func invalidQuery(err error) error {
	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("invalid query parameters: " + err.Error()))
}
