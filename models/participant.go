package models

import "time"

// Participant is a registered study participant.
type Participant struct {
	ParticipantID string    `gorm:"primaryKey;size:10" json:"participant_id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	ReferralCode  string    `gorm:"uniqueIndex;size:6;not null" json:"referral_code"`
	Referrer      string    `gorm:"index;size:6;not null;default:''" json:"referrer"`
	ExtraHours1   float64   `gorm:"column:extra_hours_1;not null;default:0" json:"extra_hours_1"`
	ExtraHours2   float64   `gorm:"column:extra_hours_2;not null;default:0" json:"extra_hours_2"`
	ExtraHours3   float64   `gorm:"column:extra_hours_3;not null;default:0" json:"extra_hours_3"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
