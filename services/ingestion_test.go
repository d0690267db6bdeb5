package services

import (
	"context"
	"testing"

	"safeblues-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_StoresDisplayHours(t *testing.T) {
	db := openTestDB(t)
	seedParticipant(t, db, "abcdefghij", "000001", "", 0)
	svc := NewIngestionService(db, testConfig())

	version := 42
	res := svc.Submit(context.Background(), Submission{
		ParticipantID: "abcdefghij",
		VersionCode:   &version,
		Statuses: []StatusRecord{
			{StatusID: 1, Duration: 8, CountActive: 2, TruncateEntryTime: 100},
			{StatusID: 2, Duration: 0, CountActive: 160, TruncateEntryTime: 200},
		},
	})
	assert.Equal(t, IngestResult{Received: 2, Stored: 2}, res)

	var rows []models.ExperimentData
	require.NoError(t, db.Order("status_id").Find(&rows).Error)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].DisplayHours1)
	assert.Equal(t, 2.0, *rows[0].DisplayHours1)
	assert.Nil(t, rows[0].DisplayHours2)
	assert.Equal(t, 10.0, *rows[1].DisplayHours1)
	assert.Equal(t, 42, *rows[0].VersionCode)
	assert.Equal(t, int64(200), rows[1].TruncatedEntryTime)
	assert.False(t, rows[0].Date.IsZero())
}

func TestSubmit_IgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)
	seedParticipant(t, db, "abcdefghij", "000001", "", 0)
	svc := NewIngestionService(db, testConfig())
	stats := NewStatsService(db, testConfig())
	ctx := context.Background()

	push := Submission{
		ParticipantID: "abcdefghij",
		Statuses:      []StatusRecord{{StatusID: 7, Duration: 12}},
	}
	first := svc.Submit(ctx, push)
	second := svc.Submit(ctx, push)

	assert.Equal(t, 1, first.Stored)
	assert.Equal(t, 0, second.Stored)
	assert.Equal(t, 1, second.Duplicates)

	got, err := stats.GetStats(ctx, "abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.TotalHoursOnCampus)
}

func TestSubmit_UnknownParticipantDoesNotFailBatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewIngestionService(db, testConfig())

	res := svc.Submit(context.Background(), Submission{
		ParticipantID: "short",
		Statuses:      []StatusRecord{{StatusID: 1, Duration: 4}},
	})
	assert.Equal(t, 1, res.Received)
	assert.Equal(t, 1, res.Failed)
}

func TestSubmit_PhaseOffStoresRawOnly(t *testing.T) {
	db := openTestDB(t)
	seedParticipant(t, db, "abcdefghij", "000001", "", 0)
	cfg := testConfig()
	cfg.Phase = models.PhaseOff
	svc := NewIngestionService(db, cfg)

	res := svc.Submit(context.Background(), Submission{
		ParticipantID: "abcdefghij",
		Statuses:      []StatusRecord{{StatusID: 1, Duration: 4}},
	})
	assert.Equal(t, 1, res.Stored)

	var row models.ExperimentData
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, 4.0, row.Duration)
	assert.Nil(t, row.DisplayHours1)
	assert.Nil(t, row.DisplayHours2)
	assert.Nil(t, row.DisplayHours3)
}
