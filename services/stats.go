package services

import (
	"context"
	"log"

	"safeblues-backend/utils"

	"gorm.io/gorm"
)

// ParticipantStats is the individual stats payload.
type ParticipantStats struct {
	ParticipantID      string  `json:"participant_id"`
	TotalHoursOnCampus float64 `json:"total_hours_on_campus"`
	EligibleHours      float64 `json:"eligible_hours"`
	FormulaVersion     string  `json:"formula_version"`
}

// PopulationStats is the anonymous distribution used by the stats page.
type PopulationStats struct {
	Participants   int                 `json:"participants"`
	Method         utils.DensityMethod `json:"method"`
	Histogram      Histogram           `json:"histogram"`
	DensitySamples DensitySamples      `json:"density_samples"`
	FormulaVersion string              `json:"formula_version"`
}

type StatsService struct {
	DB     *gorm.DB
	hours  hoursReader
	method utils.DensityMethod
}

func NewStatsService(db *gorm.DB, cfg utils.Config) *StatsService {
	return &StatsService{
		DB:     db,
		hours:  newHoursReader(db, cfg.Phase),
		method: cfg.DensityMethod,
	}
}

// GetStats returns campus and eligible hours for one participant.
func (s *StatsService) GetStats(ctx context.Context, participantID string) (*ParticipantStats, error) {
	row, err := s.hours.byID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	campus := row.campusHours()

	referred, err := s.hours.referredBy(ctx, row.ReferralCode, row.ParticipantID)
	if err != nil {
		return nil, err
	}
	successful := 0
	for _, r := range referred {
		if IsSuccessfulReferral(r.campusHours()) {
			successful++
		}
	}

	log.Printf("[STATS] participant %s has %.2f (+%.2f extra) hours, %d successful referral(s)",
		participantID, row.DisplayTotal, row.ExtraHours, successful)

	return &ParticipantStats{
		ParticipantID:      participantID,
		TotalHoursOnCampus: campus,
		EligibleHours:      EligibleHours(campus, row.Referrer != "", successful),
		FormulaVersion:     FormulaVersion,
	}, nil
}

// GetPopulationStats recomputes the eligible-hours distribution over every
// participant with campus hours.
func (s *StatsService) GetPopulationStats(ctx context.Context) (*PopulationStats, error) {
	rows, err := s.hours.all(ctx)
	if err != nil {
		return nil, err
	}

	values := eligibleHoursByParticipant(rows)
	log.Printf("[STATS] population: %d participant(s) with hours", len(values))

	var density DensitySamples
	switch s.method {
	case utils.DensityKDE:
		density, err = KDEDensity(values, densitySamples)
	default:
		density, err = GammaDensity(values, densitySamples)
	}
	if err != nil {
		return nil, err
	}

	hist := BuildHistogram(values, histogramBins)
	hist.BinEdges = roundAll(hist.BinEdges, 2)

	return &PopulationStats{
		Participants:   len(values),
		Method:         s.method,
		Histogram:      hist,
		DensitySamples: density,
		FormulaVersion: FormulaVersion,
	}, nil
}

// eligibleHoursByParticipant computes eligible hours for every row with
// nonzero campus hours. Referral successes are counted over all rows.
func eligibleHoursByParticipant(rows []participantHours) []float64 {
	campus := make([]float64, len(rows))
	owner := make(map[string]string, len(rows))
	for i, r := range rows {
		campus[i] = r.campusHours()
		owner[r.ReferralCode] = r.ParticipantID
	}

	successes := make(map[string]int)
	for i, r := range rows {
		if r.Referrer == "" || !IsSuccessfulReferral(campus[i]) {
			continue
		}
		if id, ok := owner[r.Referrer]; ok && id != r.ParticipantID {
			successes[r.Referrer]++
		}
	}

	values := make([]float64, 0, len(rows))
	for i, r := range rows {
		if campus[i] <= 0 {
			continue
		}
		values = append(values, EligibleHours(campus[i], r.Referrer != "", successes[r.ReferralCode]))
	}
	return values
}
