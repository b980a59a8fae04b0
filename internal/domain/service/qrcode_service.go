package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation
type QRCodeService interface {
	// GenerateMenuQR renders a PNG QR code pointing at the restaurant's public menu.
	GenerateMenuQR(restaurantID uuid.UUID) ([]byte, error)
}
