package reserve

import (
	"fmt"

	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
)

// ScenarioResult is one row of the stress test table: the portfolio verdict
// recomputed under a scenario's claims and premium multipliers.
type ScenarioResult struct {
	Scenario          string               `json:"scenario" db:"scenario"`
	Description       string               `json:"description" db:"description"`
	ClaimsMultiplier  float64              `json:"claims_multiplier" db:"claims_multiplier"`
	PremiumMultiplier float64              `json:"premium_multiplier" db:"premium_multiplier"`
	StressedPremium   float64              `json:"stressed_premium" db:"stressed_premium"`
	StressedExposure  float64              `json:"stressed_exposure" db:"stressed_exposure"`
	LossRatio         models.Ratio         `json:"loss_ratio" db:"loss_ratio"`
	RequiredReserves  float64              `json:"required_reserves" db:"required_reserves"`
	Adequacy          float64              `json:"adequacy" db:"adequacy"`
	CoverageRatio     models.Ratio         `json:"coverage_ratio" db:"coverage_ratio"`
	Status            models.CapitalStatus `json:"status" db:"status"`
}

// RunStressTest evaluates every configured scenario against the portfolio, in
// the order the scenarios are declared. The baseline scenario is just the
// unstressed book, so the first row doubles as a consistency check against the
// plain assessment.
func RunStressTest(policies []models.EnrichedPolicy, rules config.Rules) ([]ScenarioResult, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("stress test: %w", models.ErrEmptyInput)
	}

	var totalPremium, exposure float64
	for _, p := range policies {
		totalPremium += p.PremiumAmount
		exposure += p.ClaimsExposure
	}

	results := make([]ScenarioResult, 0, len(rules.StressScenarios))
	for _, sc := range rules.StressScenarios {
		r := ScenarioResult{
			Scenario:          sc.Name,
			Description:       sc.Description,
			ClaimsMultiplier:  sc.ClaimsMultiplier,
			PremiumMultiplier: sc.PremiumMultiplier,
			StressedPremium:   totalPremium * sc.PremiumMultiplier,
			StressedExposure:  exposure * sc.ClaimsMultiplier,
		}
		r.LossRatio = models.Divide(r.StressedExposure, r.StressedPremium)
		r.RequiredReserves = r.StressedPremium * rules.PremiumReserveRatio
		r.Adequacy = r.RequiredReserves - r.StressedExposure
		r.CoverageRatio = models.Divide(r.RequiredReserves, r.StressedExposure)
		r.Status = models.CapitalAdequate
		if r.Adequacy < 0 {
			r.Status = models.CapitalInadequate
		}
		results = append(results, r)
	}
	return results, nil
}
