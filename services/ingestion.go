package services

import (
	"context"
	"log"

	"safeblues-backend/models"
	"safeblues-backend/utils"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusRecord is one status event as pushed by the app.
type StatusRecord struct {
	StatusID          int64   `json:"status_id"`
	Duration          float64 `json:"duration"`
	CountActive       float64 `json:"count_active"`
	TruncateEntryTime int64   `json:"truncate_entry_time"`
}

// Submission is a telemetry push from one device.
type Submission struct {
	ParticipantID string         `json:"participant_id"`
	VersionCode   *int           `json:"version_code"`
	Statuses      []StatusRecord `json:"statuses"`
}

// IngestResult tallies what happened to each pushed status.
type IngestResult struct {
	Received   int `json:"received"`
	Stored     int `json:"stored"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

type IngestionService struct {
	DB      *gorm.DB
	phase   models.Phase
	retries uint64
	clock   clockwork.Clock
}

func NewIngestionService(db *gorm.DB, cfg utils.Config) *IngestionService {
	return &IngestionService{
		DB:      db,
		phase:   cfg.Phase,
		retries: cfg.WriteRetries,
		clock:   clockwork.NewRealClock(),
	}
}

// Submit stores every status of the push, skipping ones already stored.
// Individual failures are logged and counted; the push as a whole is
// always accepted.
func (s *IngestionService) Submit(ctx context.Context, sub Submission) IngestResult {
	now := s.clock.Now().UTC()
	res := IngestResult{Received: len(sub.Statuses)}

	for _, st := range sub.Statuses {
		row := models.ExperimentData{
			ParticipantID:      sub.ParticipantID,
			StatusID:           st.StatusID,
			VersionCode:        sub.VersionCode,
			Date:               now,
			TruncatedEntryTime: st.TruncateEntryTime,
			Duration:           st.Duration,
			CountActive:        st.CountActive,
		}
		row.SetDisplayHours(s.phase, DisplayHours(st.Duration, st.CountActive))

		var inserted int64
		err := withWriteRetry(ctx, s.retries, "ingest", func() error {
			tx := s.DB.WithContext(ctx).
				Omit(clause.Associations).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "participant_id"}, {Name: "status_id"}},
					DoNothing: true,
				}).
				Create(&row)
			inserted = tx.RowsAffected
			return tx.Error
		})
		switch {
		case err != nil:
			res.Failed++
			log.Printf("❌ [INGEST] status %d for %s not stored: %v", st.StatusID, sub.ParticipantID, err)
		case inserted == 0:
			res.Duplicates++
		default:
			res.Stored++
		}
	}

	log.Printf("📥 [INGEST] %s (%s): received=%d stored=%d duplicates=%d failed=%d",
		sub.ParticipantID, s.phase, res.Received, res.Stored, res.Duplicates, res.Failed)
	return res
}
