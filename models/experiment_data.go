package models

import "time"

// ExperimentData is one telemetry status event pushed by the mobile app.
// (participant_id, status_id) is the natural key; re-pushed statuses are dropped.
type ExperimentData struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ParticipantID      string    `gorm:"size:10;not null;uniqueIndex:idx_experiment_status,priority:1" json:"participant_id"`
	StatusID           int64     `gorm:"not null;uniqueIndex:idx_experiment_status,priority:2" json:"status_id"`
	VersionCode        *int      `json:"version_code,omitempty"`
	Date               time.Time `gorm:"not null" json:"date"`
	TruncatedEntryTime int64     `json:"truncated_entry_time"`
	Duration           float64   `json:"duration"`
	CountActive        float64   `json:"count_active"`
	DisplayHours1      *float64  `gorm:"column:display_hours_1" json:"display_hours_1,omitempty"`
	DisplayHours2      *float64  `gorm:"column:display_hours_2" json:"display_hours_2,omitempty"`
	DisplayHours3      *float64  `gorm:"column:display_hours_3" json:"display_hours_3,omitempty"`

	Participant Participant `gorm:"foreignKey:ParticipantID;references:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ExperimentData) TableName() string {
	return "experiment_data"
}

// SetDisplayHours stores hours in the phase's column. PhaseOff stores nothing.
func (e *ExperimentData) SetDisplayHours(phase Phase, hours float64) {
	switch phase {
	case Phase1:
		e.DisplayHours1 = &hours
	case Phase2:
		e.DisplayHours2 = &hours
	case Phase3:
		e.DisplayHours3 = &hours
	}
}
