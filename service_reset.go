package identity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ForgotPassword starts the reset flow: generate a short numeric code, store
// it with an expiry, and hand it to the mailer. Delivery failures are logged
// but never surfaced to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.Principals().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrPrincipalNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	code, err := generateResetCode()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to generate reset code")
	}

	record := &ResetCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: s.now().Add(s.resetExpiration),
	}

	if _, err := s.repo.ResetCodes().Create(ctx, record); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to store reset code")
	}

	subject, body := resetCodeEmail(user.Name, code, s.resetExpiration)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Error("reset code delivery error for %s: %v", user.ID, err)
	}

	s.emit(ctx, ActivityEventPasswordResetRequest, user.ID, nil)

	return nil
}

// VerifyResetCode reports whether the code is live for the principal. It is
// side-effect free so a client can gate its reset form on it without burning
// the code.
func (s *Service) VerifyResetCode(ctx context.Context, userID uuid.UUID, code string) error {
	_, err := s.repo.ResetCodes().FindValid(ctx, userID, code, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidResetCode) {
			return ErrInvalidResetCode
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up reset code")
	}
	return nil
}

// ResetPassword finishes the flow: the code must be live, the new password is
// hashed and stored, and every outstanding code for the principal is deleted
// so stale codes cannot be replayed.
func (s *Service) ResetPassword(ctx context.Context, msg ResetPasswordMessage) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid reset password payload")
	}

	if _, err := s.repo.ResetCodes().FindValid(ctx, msg.UserID, msg.Code, s.now()); err != nil {
		if errors.Is(err, ErrInvalidResetCode) {
			return ErrInvalidResetCode
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to look up reset code")
	}

	hash, err := s.hasher.HashPassword(ctx, msg.NewPassword)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	err = s.repo.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.Principals().UpdatePasswordHashTx(ctx, tx, msg.UserID, hash); err != nil {
			return err
		}
		return s.repo.ResetCodes().DeleteForUserTx(ctx, tx, msg.UserID)
	})

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrPrincipalNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to reset password")
	}

	s.emit(ctx, ActivityEventPasswordResetSuccess, msg.UserID, nil)

	return nil
}

// generateResetCode draws a 4 digit code from crypto/rand, zero padded so
// "0042" stays four characters.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
