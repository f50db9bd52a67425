package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"docvault/internal/identity"
	"docvault/internal/notify"
)

// VerificationService handles password-reset requests against the external
// identity provider. The response is always generic success: whether the email
// exists must not be observable from the outside.
type VerificationService interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

type verificationService struct {
	dir    identity.Directory
	mailer notify.Mailer
	log    *zap.Logger
}

// NewVerificationService constructs a new VerificationService.
func NewVerificationService(dir identity.Directory, mailer notify.Mailer, log *zap.Logger) VerificationService {
	return &verificationService{dir: dir, mailer: mailer, log: log}
}

// RequestPasswordReset mails a reset code when the address is known. Lookup
// misses and send failures are logged and swallowed so the caller always sees
// the same outcome.
func (s *verificationService) RequestPasswordReset(ctx context.Context, email string) error {
	userID, err := s.dir.LookupByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownUser) {
			s.log.Warn("password reset requested for unknown email")
		} else {
			s.log.Error("password reset lookup failed", zap.Error(err))
		}
		return nil
	}

	code, err := newResetCode()
	if err != nil {
		s.log.Error("password reset code generation failed", zap.Error(err))
		return nil
	}

	if err := s.mailer.SendPasswordReset(ctx, email, code); err != nil {
		// Best-effort send: log and continue.
		s.log.Error("password reset mail failed", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// newResetCode returns a 6-digit code from a cryptographically secure source.
func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
