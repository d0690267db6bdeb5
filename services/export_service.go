package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"safeblues-backend/models"
	"safeblues-backend/utils"

	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

const exportBatchSize = 500

// Uploader stores an export object and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ExportResult describes one uploaded export.
type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

type ExportService struct {
	DB      *gorm.DB
	storage Uploader
	phase   models.Phase
	clock   clockwork.Clock
}

// NewExportService takes a nil storage when no bucket is configured.
func NewExportService(db *gorm.DB, storage Uploader, cfg utils.Config) *ExportService {
	return &ExportService{DB: db, storage: storage, phase: cfg.Phase, clock: clockwork.NewRealClock()}
}

var exportHeader = []string{
	"participant_id", "status_id", "version_code", "date",
	"truncated_entry_time", "duration", "count_active", "display_hours",
}

// Export writes every telemetry row as CSV and uploads it.
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	now := s.clock.Now().UTC()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	rows := 0
	var batch []models.ExperimentData
	res := s.DB.WithContext(ctx).FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			if err := w.Write(s.csvRecord(&batch[i])); err != nil {
				return err
			}
		}
		rows += len(batch)
		return nil
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to read experiment data: %w", res.Error)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	key := "exports/" + slug.Make(fmt.Sprintf("%s experiment data %s", s.phase, now.Format("2006-01-02 150405"))) + ".csv"
	url, err := s.storage.Upload(ctx, key, "text/csv", &buf)
	if err != nil {
		return nil, err
	}

	log.Printf("📤 [EXPORT] %d row(s) uploaded to %s", rows, key)
	return &ExportResult{Key: key, URL: url, Rows: rows}, nil
}

func (s *ExportService) csvRecord(e *models.ExperimentData) []string {
	version := ""
	if e.VersionCode != nil {
		version = strconv.Itoa(*e.VersionCode)
	}
	display := ""
	var hours *float64
	switch s.phase {
	case models.Phase1:
		hours = e.DisplayHours1
	case models.Phase2:
		hours = e.DisplayHours2
	case models.Phase3:
		hours = e.DisplayHours3
	}
	if hours != nil {
		display = strconv.FormatFloat(*hours, 'f', -1, 64)
	}
	return []string{
		e.ParticipantID,
		strconv.FormatInt(e.StatusID, 10),
		version,
		e.Date.UTC().Format(time.RFC3339),
		strconv.FormatInt(e.TruncatedEntryTime, 10),
		strconv.FormatFloat(e.Duration, 'f', -1, 64),
		strconv.FormatFloat(e.CountActive, 'f', -1, 64),
		display,
	}
}
