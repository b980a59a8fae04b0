// Package impl contains the implementation of the application's business logic.
package impl

import (
	"strings"

	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/errors"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// parseID turns a client supplied id into a UUID or ErrInvalidID.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errors.WithStack(domainerrors.ErrInvalidID.WithDetails(field + " must be a UUID"))
	}

	return id, nil
}

// normalizePage clamps offset and limit to the accepted range.
func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return offset, limit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
