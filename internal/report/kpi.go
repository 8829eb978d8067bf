// Package report renders pipeline results into the artifacts analysts
// consume: CSV tables, the Excel workbook, KPI snapshots and the dashboard
// SQL templates.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"policy-analytics/internal/models"
)

// KPISet is the executive snapshot of one pipeline run. It is the payload
// cached for dashboards, so the field set stays flat and JSON-friendly.
type KPISet struct {
	RunID            uuid.UUID    `json:"run_id"`
	GeneratedAt      time.Time    `json:"generated_at"`
	TotalPolicies    int          `json:"total_policies"`
	ExcludedRecords  int          `json:"excluded_records"`
	TotalPremium     float64      `json:"total_premium"`
	AvgPremium       float64      `json:"avg_premium"`
	TotalClaims      int          `json:"total_claims"`
	ClaimsExposure   float64      `json:"claims_exposure"`
	OverallLossRatio models.Ratio `json:"overall_loss_ratio"`
	AvgRiskScore     float64      `json:"avg_risk_score"`
	HighRiskPct      float64      `json:"high_risk_pct"`
	SmokingPct       float64      `json:"smoking_pct"`
	SatisfactionPct  float64      `json:"satisfaction_pct"`
	AvgAge           float64      `json:"avg_age"`
	AvgHealthScore   float64      `json:"avg_health_score"`
	AvgLifetimeValue float64      `json:"avg_lifetime_value"`
}

// ComputeKPIs reduces the enriched book to the executive snapshot.
// SatisfactionPct is the Good or Excellent share of policies that carry
// feedback at all; a book with no feedback reports zero.
func ComputeKPIs(runID uuid.UUID, policies []models.EnrichedPolicy, excluded int) (KPISet, error) {
	if len(policies) == 0 {
		return KPISet{}, fmt.Errorf("compute kpis: %w", models.ErrEmptyInput)
	}

	k := KPISet{
		RunID:           runID,
		GeneratedAt:     time.Now().UTC(),
		TotalPolicies:   len(policies),
		ExcludedRecords: excluded,
	}

	var riskSum, ageSum int
	var healthSum, ltvSum float64
	var highRisk, smokers, withFeedback, satisfied int
	for _, p := range policies {
		k.TotalPremium += p.PremiumAmount
		k.TotalClaims += p.PreviousClaims
		k.ClaimsExposure += p.ClaimsExposure
		riskSum += p.RiskScore
		ageSum += p.Age
		ltvSum += p.LifetimeValue
		if p.HealthScore != nil {
			healthSum += *p.HealthScore
		}
		if p.RiskCategory == models.RiskHigh || p.RiskCategory == models.RiskVeryHigh {
			highRisk++
		}
		if p.SmokingStatus == models.SmokingYes {
			smokers++
		}
		if p.CustomerFeedback != nil {
			withFeedback++
			if *p.CustomerFeedback == models.FeedbackGood || *p.CustomerFeedback == models.FeedbackExcellent {
				satisfied++
			}
		}
	}

	n := float64(len(policies))
	k.AvgPremium = k.TotalPremium / n
	k.OverallLossRatio = models.Divide(k.ClaimsExposure, k.TotalPremium)
	k.AvgRiskScore = float64(riskSum) / n
	k.HighRiskPct = float64(highRisk) / n * 100
	k.SmokingPct = float64(smokers) / n * 100
	k.AvgAge = float64(ageSum) / n
	k.AvgHealthScore = healthSum / n
	k.AvgLifetimeValue = ltvSum / n
	if withFeedback > 0 {
		k.SatisfactionPct = float64(satisfied) / float64(withFeedback) * 100
	}
	return k, nil
}
