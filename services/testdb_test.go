package services

import (
	"path/filepath"
	"testing"
	"time"

	"safeblues-backend/models"
	"safeblues-backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Participant{},
		&models.ExperimentData{},
		&models.AdminAccount{},
		&models.AdminSession{},
	))
	return gdb
}

func testConfig() utils.Config {
	return utils.Config{
		Phase:         models.Phase1,
		DensityMethod: utils.DensityGamma,
		WriteRetries:  1,
		SessionTTL:    time.Hour,
	}
}

// seedParticipant inserts a participant directly with the given code.
func seedParticipant(t *testing.T, db *gorm.DB, id, code, referrer string, extra float64) models.Participant {
	t.Helper()
	p := models.Participant{
		ParticipantID: id,
		Email:         id + "@uq.edu.au",
		ReferralCode:  code,
		Referrer:      referrer,
		ExtraHours1:   extra,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
