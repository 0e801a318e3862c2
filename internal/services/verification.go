package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/utils"
)

// codeTTL is how long an issued code stays verifiable.
const codeTTL = 10 * time.Minute

// ErrCodeInvalid covers wrong, expired and already-used codes alike;
// the flow deliberately does not tell the caller which.
var ErrCodeInvalid = errors.New("invalid or expired verification code")

// Mailer is the outbound email transport. Single synchronous attempt,
// no retry anywhere in the stack.
type Mailer interface {
	Send(to, subject, body string) error
	SendVerification(to, code string) error
}

// VerificationService owns the OTP lifecycle: issue a code, check it,
// and answer the "is this email verified" gate that donor, user and
// blood-request creation all sit behind.
type VerificationService struct {
	db     *gorm.DB
	mailer Mailer
	log    *zap.Logger
}

func NewVerificationService(db *gorm.DB, mailer Mailer, log *zap.Logger) *VerificationService {
	return &VerificationService{db: db, mailer: mailer, log: log}
}

// SendCode issues a fresh code for the email and mails it. Every call
// inserts a new row regardless of outstanding unexpired codes. The row
// is written before the send, so a failed send still leaves the code
// usable.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	v := models.EmailVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		s.log.Error("failed to store verification code", zap.Error(err), zap.String("email", email))
		return err
	}
	if err := s.mailer.SendVerification(email, code); err != nil {
		s.log.Error("failed to send verification email", zap.Error(err), zap.String("email", email))
		return err
	}
	return nil
}

// VerifyCode flags the most recent matching unexpired, unused code as
// verified. A second attempt with the same code fails, since the row
// is no longer unused.
func (s *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	var v models.EmailVerification
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ? AND expires_at > ? AND verified = ?", email, code, time.Now(), false).
		Order("created_at DESC, id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeInvalid
	}
	if err != nil {
		s.log.Error("failed to look up verification code", zap.Error(err), zap.String("email", email))
		return err
	}
	if err := s.db.WithContext(ctx).Model(&v).Update("verified", true).Error; err != nil {
		s.log.Error("failed to mark code verified", zap.Error(err), zap.Uint("id", v.ID))
		return err
	}
	return nil
}

// IsVerified reports whether any verified code exists for the email.
// Verified rows satisfy this gate indefinitely, even after their own
// TTL has passed; newer codes do not invalidate older verifications.
func (s *VerificationService) IsVerified(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("email = ? AND verified = ?", email, true).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check email verification", zap.Error(err), zap.String("email", email))
		return false, err
	}
	return count > 0, nil
}
