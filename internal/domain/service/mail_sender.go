package service

import "context"

// MailSender delivers transactional email.
type MailSender interface {
	// SendVerificationCode emails the plaintext code to the given address.
	SendVerificationCode(ctx context.Context, email, code string) error
}
