// Package scoring holds the per-record risk formulas. Every consumer of a risk
// score or category derives it from here; scores are recomputed from their
// inputs and never persisted independently.
package scoring

import (
	"policy-analytics/internal/models"
)

// Risk score bounds: six weighted factors, worst case 2+3+2+2+2+1.
const (
	MinRiskScore = 0
	MaxRiskScore = 12
)

// Risk category bands on the score. These must stay consistent across every
// consumer: aggregation, reserve analysis and the exported dashboard queries.
const (
	LowMaxScore    = 2
	MediumMaxScore = 4
	HighMaxScore   = 6
)

// RiskScore computes the weighted risk score for one policy record. It is a
// pure function of age, previous claims, health score, credit score, smoking
// status and exercise frequency. A missing health or credit score fails the
// record; scoring it as zero would silently misclassify the risk.
func RiskScore(rec models.PolicyRecord) (int, error) {
	if rec.HealthScore == nil {
		return 0, models.NewMissingField(rec.ID, 0, "health_score")
	}
	if rec.CreditScore == nil {
		return 0, models.NewMissingField(rec.ID, 0, "credit_score")
	}

	score := 0

	// Age factor: extremes weigh double.
	switch {
	case rec.Age < 25 || rec.Age > 65:
		score += 2
	case rec.Age <= 35:
		score += 1
	}

	// Claims history.
	switch {
	case rec.PreviousClaims > 2:
		score += 3
	case rec.PreviousClaims > 0:
		score += 1
	}

	// Health score.
	switch {
	case *rec.HealthScore < 20:
		score += 2
	case *rec.HealthScore < 40:
		score += 1
	}

	// Credit score.
	switch {
	case *rec.CreditScore < 500:
		score += 2
	case *rec.CreditScore < 650:
		score += 1
	}

	if rec.SmokingStatus == models.SmokingYes {
		score += 2
	}
	if rec.ExerciseFrequency == models.ExerciseRarely {
		score += 1
	}

	return score, nil
}

// Categorize bands a risk score into the four fixed categories.
func Categorize(score int) models.RiskCategory {
	switch {
	case score <= LowMaxScore:
		return models.RiskLow
	case score <= MediumMaxScore:
		return models.RiskMedium
	case score <= HighMaxScore:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

// AgeGroupFor buckets an age into the reporting age bands.
func AgeGroupFor(age int) models.AgeGroup {
	switch {
	case age <= 25:
		return models.Age18To25
	case age <= 35:
		return models.Age26To35
	case age <= 45:
		return models.Age36To45
	case age <= 55:
		return models.Age46To55
	case age <= 65:
		return models.Age56To65
	default:
		return models.AgeOver65
	}
}

// IncomeBracketFor buckets annual income. Income is nullable in the source
// data and is not a risk-score input, so a missing income does not exclude
// the record; it lands in the Unknown bracket.
func IncomeBracketFor(income *float64) models.IncomeBracket {
	if income == nil {
		return models.IncomeUnknown
	}
	switch {
	case *income <= 30000:
		return models.IncomeLow
	case *income <= 60000:
		return models.IncomeLowerMid
	case *income <= 100000:
		return models.IncomeMid
	case *income <= 200000:
		return models.IncomeUpperMid
	default:
		return models.IncomeHigh
	}
}

// ExecutiveHighRisk is the executive-summary flagging heuristic: age extremes
// combined with any of elevated claims, poor health or weak credit. It is an
// intentionally separate view from the risk-score bands and must not be
// unified with Categorize.
func ExecutiveHighRisk(rec models.PolicyRecord) bool {
	if rec.Age >= 25 && rec.Age <= 65 {
		return false
	}
	if rec.PreviousClaims > 1 {
		return true
	}
	if rec.HealthScore != nil && *rec.HealthScore < 30 {
		return true
	}
	if rec.CreditScore != nil && *rec.CreditScore < 600 {
		return true
	}
	return false
}
