package service

import "context"

// Mailer delivers transactional email.
type Mailer interface {
	// SendVerification sends the verification link to the address.
	SendVerification(ctx context.Context, to, name, link string) error
}
