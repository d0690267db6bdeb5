package services

import "math"

// FormulaVersion identifies the campus/eligible-hours rules implemented here.
const FormulaVersion = "v3"

const (
	// Status durations arrive in quarter-hour units.
	quartersPerHour     = 4.0
	maxQuartersPerEntry = 40.0

	maxCampusHours = 200.0

	matchBonusCap       = 20.0
	referralThreshold   = 20.0
	referrerBonus       = 5.0
	perReferralBonus    = 5.0
	maxCountedReferrals = 10
)

// DisplayHours converts one status event into its bounded hour contribution.
func DisplayHours(duration, countActive float64) float64 {
	q := math.Max(duration, countActive)
	return math.Min(maxQuartersPerEntry, math.Max(0, q)) / quartersPerHour
}

// CampusHours clamps summed display hours plus the manual adjustment to [0, 200].
func CampusHours(displayTotal, extraHours float64) float64 {
	return math.Min(maxCampusHours, math.Max(0, displayTotal+extraHours))
}

// EligibleHours applies the match, referrer and referral bonuses.
func EligibleHours(campusHours float64, hasReferrer bool, successfulReferrals int) float64 {
	eligible := campusHours + math.Min(campusHours, matchBonusCap)
	if hasReferrer && campusHours >= referralThreshold {
		eligible += referrerBonus
	}
	return eligible + perReferralBonus*float64(min(successfulReferrals, maxCountedReferrals))
}

// IsSuccessfulReferral reports whether a referred participant counts
// towards their referrer's bonus.
func IsSuccessfulReferral(campusHours float64) bool {
	return campusHours >= referralThreshold
}
