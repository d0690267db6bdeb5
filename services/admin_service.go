package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"safeblues-backend/models"
	"safeblues-backend/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// ParticipantSummary is the admin view of a participant.
type ParticipantSummary struct {
	ParticipantID string  `json:"participant_id"`
	Email         string  `json:"email"`
	ReferralCode  string  `json:"referral_code"`
	Referrer      string  `json:"referrer"`
	ExtraHours    float64 `json:"extra_hours"`
	CampusHours   float64 `json:"campus_hours"`
}

type AdminService struct {
	DB       *gorm.DB
	phase    models.Phase
	ttl      time.Duration
	retries  uint64
	hours    hoursReader
	clock    clockwork.Clock
	hashCost int
}

func NewAdminService(db *gorm.DB, cfg utils.Config) *AdminService {
	return &AdminService{
		DB:       db,
		phase:    cfg.Phase,
		ttl:      cfg.SessionTTL,
		retries:  cfg.WriteRetries,
		hours:    newHoursReader(db, cfg.Phase),
		clock:    clockwork.NewRealClock(),
		hashCost: bcrypt.DefaultCost,
	}
}

// CreateAdmin adds an admin account with a bcrypt-hashed password.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (*models.AdminAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, newValidationError("email", "email is required")
	}
	if len(password) < minPasswordLength {
		return nil, newValidationError("password", "password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	acct := models.AdminAccount{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	err = withWriteRetry(ctx, s.retries, "create admin", func() error {
		return s.DB.WithContext(ctx).Create(&acct).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, newValidationError("email", "email already has an admin account")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("✅ [ADMIN] account created for %s", email)
	return &acct, nil
}

// EnsureAdmin creates the bootstrap admin if no account uses that email yet.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password string) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.AdminAccount{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := s.CreateAdmin(ctx, email, password)
	return err
}

// SignIn checks credentials and issues a session token.
func (s *AdminService) SignIn(ctx context.Context, email, password string) (*models.AdminSession, error) {
	var acct models.AdminAccount
	err := s.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		log.Printf("🚫 [ADMIN] failed sign-in for %s", acct.Email)
		return nil, ErrInvalidCredentials
	}

	sess := models.AdminSession{
		Token:     uuid.NewString(),
		AdminID:   acct.ID,
		ExpiresAt: s.clock.Now().UTC().Add(s.ttl),
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("🔐 [ADMIN] %s signed in", acct.Email)
	return &sess, nil
}

// Authenticate resolves a live session token.
func (s *AdminService) Authenticate(ctx context.Context, token string) (*models.AdminSession, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrSessionNotFound
	}
	var sess models.AdminSession
	err := s.DB.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, s.clock.Now().UTC()).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return &sess, nil
}

// SignOut revokes a session token.
func (s *AdminService) SignOut(ctx context.Context, token string) error {
	return s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.AdminSession{}).Error
}

// PurgeExpiredSessions deletes every session past its expiry.
func (s *AdminService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	tx := s.DB.WithContext(ctx).Where("expires_at <= ?", s.clock.Now().UTC()).Delete(&models.AdminSession{})
	return tx.RowsAffected, tx.Error
}

// ListParticipants returns every participant with their current campus hours.
func (s *AdminService) ListParticipants(ctx context.Context) ([]ParticipantSummary, error) {
	rows, err := s.hours.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ParticipantSummary, len(rows))
	for i, r := range rows {
		out[i] = ParticipantSummary{
			ParticipantID: r.ParticipantID,
			Email:         r.Email,
			ReferralCode:  r.ReferralCode,
			Referrer:      r.Referrer,
			ExtraHours:    r.ExtraHours,
			CampusHours:   r.campusHours(),
		}
	}
	return out, nil
}

// SetExtraHours overwrites the manual adjustment for the current phase.
func (s *AdminService) SetExtraHours(ctx context.Context, participantID string, hours float64) error {
	cols, ok := s.phase.Columns()
	if !ok {
		return ErrHoursOff
	}
	err := withWriteRetry(ctx, s.retries, "set extra hours", func() error {
		tx := s.DB.WithContext(ctx).Model(&models.Participant{}).
			Where("participant_id = ?", participantID).
			Update(cols.ExtraHours, hours)
		if tx.Error != nil {
			return tx.Error
		}
		if tx.RowsAffected == 0 {
			return ErrParticipantNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("✏️ [ADMIN] %s %s set to %.2f", participantID, cols.ExtraHours, hours)
	return nil
}
