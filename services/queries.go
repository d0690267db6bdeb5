package services

import (
	"context"
	"fmt"

	"safeblues-backend/models"

	"gorm.io/gorm"
)

// participantHours is one participant with their summed display hours for
// the configured phase.
type participantHours struct {
	ParticipantID string
	Email         string
	ReferralCode  string
	Referrer      string
	DisplayTotal  float64
	ExtraHours    float64
}

func (r participantHours) campusHours() float64 {
	return CampusHours(r.DisplayTotal, r.ExtraHours)
}

// hoursStatements are the read queries for one phase. Column names come
// only from models.PhaseColumns, so every statement has a fixed shape and
// takes values as bind parameters.
type hoursStatements struct {
	all        string
	byID       string
	referredBy string
}

var phaseStatements = func() map[models.Phase]hoursStatements {
	out := map[models.Phase]hoursStatements{
		models.PhaseOff: buildHoursStatements("0", "0"),
	}
	for _, p := range []models.Phase{models.Phase1, models.Phase2, models.Phase3} {
		cols, _ := p.Columns()
		out[p] = buildHoursStatements("e."+cols.DisplayHours, "p."+cols.ExtraHours)
	}
	return out
}()

func buildHoursStatements(displayExpr, extraExpr string) hoursStatements {
	base := fmt.Sprintf(`SELECT p.participant_id, p.email, p.referral_code, p.referrer,
		COALESCE(SUM(%s), 0) AS display_total,
		MAX(%s) AS extra_hours
	FROM participants p
	LEFT JOIN experiment_data e ON e.participant_id = p.participant_id`, displayExpr, extraExpr)
	const group = ` GROUP BY p.participant_id, p.email, p.referral_code, p.referrer`

	return hoursStatements{
		all:        base + group + ` ORDER BY p.participant_id`,
		byID:       base + ` WHERE p.participant_id = ?` + group,
		referredBy: base + ` WHERE p.referrer = ? AND p.participant_id <> ?` + group,
	}
}

type hoursReader struct {
	db    *gorm.DB
	stmts hoursStatements
}

func newHoursReader(db *gorm.DB, phase models.Phase) hoursReader {
	return hoursReader{db: db, stmts: phaseStatements[phase]}
}

func (h hoursReader) all(ctx context.Context) ([]participantHours, error) {
	var rows []participantHours
	if err := h.db.WithContext(ctx).Raw(h.stmts.all).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read participant hours: %w", err)
	}
	return rows, nil
}

func (h hoursReader) byID(ctx context.Context, participantID string) (participantHours, error) {
	var rows []participantHours
	if err := h.db.WithContext(ctx).Raw(h.stmts.byID, participantID).Scan(&rows).Error; err != nil {
		return participantHours{}, fmt.Errorf("failed to read hours for %s: %w", participantID, err)
	}
	if len(rows) == 0 {
		return participantHours{}, ErrParticipantNotFound
	}
	return rows[0], nil
}

func (h hoursReader) referredBy(ctx context.Context, referralCode, excludeID string) ([]participantHours, error) {
	var rows []participantHours
	if err := h.db.WithContext(ctx).Raw(h.stmts.referredBy, referralCode, excludeID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read referrals for %s: %w", referralCode, err)
	}
	return rows, nil
}
