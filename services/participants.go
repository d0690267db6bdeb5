package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"unicode/utf8"

	"safeblues-backend/models"
	"safeblues-backend/utils"

	"gorm.io/gorm"
)

const (
	participantIDLength = 10
	referralCodeSpace   = 1_000_000
	maxCodeAttempts     = 20
)

// Registration is a sign-up request from the participant site.
type Registration struct {
	Email         string `json:"email" validate:"required,email"`
	ParticipantID string `json:"participant_id"`
	Referrer      string `json:"referrer"`
}

type ParticipantService struct {
	DB      *gorm.DB
	retries uint64
	newCode func() (string, error)
}

func NewParticipantService(db *gorm.DB, cfg utils.Config) *ParticipantService {
	return &ParticipantService{DB: db, retries: cfg.WriteRetries, newCode: randomReferralCode}
}

// randomReferralCode draws a zero-padded 6-digit code.
func randomReferralCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(referralCodeSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register creates a participant with a fresh referral code. Uniqueness of
// participant_id, email and referral_code is enforced by the store; a
// collision on the referral code alone is retried with a new code.
func (s *ParticipantService) Register(ctx context.Context, reg Registration) (*models.Participant, error) {
	id := reg.ParticipantID
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	referrer := strings.TrimSpace(reg.Referrer)

	if utf8.RuneCountInString(id) != participantIDLength {
		return nil, newValidationError("participant_id", "participant_id is the wrong length")
	}
	if email == "" {
		return nil, newValidationError("email", "email is required")
	}
	if referrer != "" {
		var n int64
		if err := s.DB.WithContext(ctx).Model(&models.Participant{}).
			Where("referral_code = ?", referrer).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to check referrer: %w", err)
		}
		if n == 0 {
			return nil, newValidationError("referrer", "referrer is not a valid referral code")
		}
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate referral code: %w", err)
		}
		p := models.Participant{
			ParticipantID: id,
			Email:         email,
			ReferralCode:  code,
			Referrer:      referrer,
		}

		err = withWriteRetry(ctx, s.retries, "register", func() error {
			return s.DB.WithContext(ctx).Create(&p).Error
		})
		if err == nil {
			log.Printf("✅ [REGISTER] participant %s registered (referrer=%q)", id, referrer)
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}

		if verr, err := s.duplicateField(ctx, id, email); err != nil {
			return nil, err
		} else if verr != nil {
			return nil, verr
		}
		log.Printf("⚠️ [REGISTER] referral code collision for %s (attempt %d)", id, attempt)
	}
	return nil, fmt.Errorf("could not allocate a unique referral code after %d attempts", maxCodeAttempts)
}

// duplicateField works out which unique column a failed insert hit. A nil
// result means neither id nor email is taken, so the referral code collided.
func (s *ParticipantService) duplicateField(ctx context.Context, id, email string) (*ValidationError, error) {
	var existing models.Participant
	err := s.DB.WithContext(ctx).
		Where("participant_id = ? OR email = ?", id, email).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect duplicate participant: %w", err)
	}
	if existing.ParticipantID == id {
		return newValidationError("participant_id", "participant_id is already linked to an email"), nil
	}
	return newValidationError("email", "email is already linked to a participant_id"), nil
}

// GetReferralCode returns the participant's own referral code.
func (s *ParticipantService) GetReferralCode(ctx context.Context, participantID string) (string, error) {
	var p models.Participant
	err := s.DB.WithContext(ctx).Select("referral_code").
		Where("participant_id = ?", participantID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrParticipantNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read referral code: %w", err)
	}
	return p.ReferralCode, nil
}

// CountParticipants returns how many participants are registered.
func (s *ParticipantService) CountParticipants(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Participant{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
