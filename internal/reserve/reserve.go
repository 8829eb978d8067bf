// Package reserve computes capital adequacy assessments, parallel reserve
// methodologies and reserve recommendations over a policy portfolio.
package reserve

import (
	"fmt"

	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
)

// Assessment is the binding capital adequacy verdict for a portfolio or a
// portfolio segment. Required reserves follow the premium-based methodology;
// the alternative methodologies are reported next to it as MethodFigures but
// never change the verdict.
type Assessment struct {
	Group            string               `json:"group" db:"group_value"`
	PolicyCount      int                  `json:"policy_count" db:"policy_count"`
	TotalPremium     float64              `json:"total_premium" db:"total_premium"`
	TotalClaims      int                  `json:"total_claims" db:"total_claims"`
	ClaimsExposure   float64              `json:"claims_exposure" db:"claims_exposure"`
	RequiredReserves float64              `json:"required_reserves" db:"required_reserves"`
	Adequacy         float64              `json:"adequacy" db:"adequacy"`
	CoverageRatio    models.Ratio         `json:"coverage_ratio" db:"coverage_ratio"`
	Status           models.CapitalStatus `json:"status" db:"status"`
}

// MethodFigures reports the four reserve methodologies side by side, plus
// their maximum as the conservative envelope.
type MethodFigures struct {
	PremiumBased float64 `json:"premium_based" db:"premium_based"`
	ClaimsBased  float64 `json:"claims_based" db:"claims_based"`
	RiskAdjusted float64 `json:"risk_adjusted" db:"risk_adjusted"`
	IBNR         float64 `json:"ibnr" db:"ibnr"`
	Max          float64 `json:"max" db:"max_reserve"`
}

// Recommendation is one actionable line of the reserve report.
type Recommendation struct {
	Group    string                        `json:"group"`
	Priority models.RecommendationPriority `json:"priority"`
	Action   string                        `json:"action"`
	Reason   string                        `json:"reason"`
}

// Assess produces the capital adequacy verdict for one group of policies.
// Adequacy is required reserves minus claims exposure; the status flips to
// Inadequate strictly below zero, so a group whose reserves exactly cover its
// exposure is still adequate. Coverage is required reserves over exposure,
// undefined for a claim-free group.
func Assess(group string, count int, totalPremium float64, totalClaims int, rules config.Rules) Assessment {
	exposure := float64(totalClaims) * rules.ClaimUnitCost
	required := totalPremium * rules.PremiumReserveRatio
	a := Assessment{
		Group:            group,
		PolicyCount:      count,
		TotalPremium:     totalPremium,
		TotalClaims:      totalClaims,
		ClaimsExposure:   exposure,
		RequiredReserves: required,
		Adequacy:         required - exposure,
		CoverageRatio:    models.Divide(required, exposure),
		Status:           models.CapitalAdequate,
	}
	if a.Adequacy < 0 {
		a.Status = models.CapitalInadequate
	}
	return a
}

// Methods computes the four parallel reserve methodologies for a portfolio.
// RiskAdjusted weights each policy's premium by its risk category ratio, so it
// needs the enriched rows rather than the portfolio totals.
func Methods(policies []models.EnrichedPolicy, rules config.Rules) (MethodFigures, error) {
	if len(policies) == 0 {
		return MethodFigures{}, fmt.Errorf("reserve methods: %w", models.ErrEmptyInput)
	}

	var totalPremium, exposure, riskAdjusted float64
	for _, p := range policies {
		totalPremium += p.PremiumAmount
		exposure += p.ClaimsExposure
		riskAdjusted += p.PremiumAmount * rules.RiskAdjustedRatios[p.RiskCategory]
	}

	m := MethodFigures{
		PremiumBased: totalPremium * rules.PremiumReserveRatio,
		ClaimsBased:  exposure * rules.ClaimsReserveMultiplier,
		RiskAdjusted: riskAdjusted,
		IBNR:         totalPremium * rules.IBNRRatio,
	}
	m.Max = max(m.PremiumBased, m.ClaimsBased, m.RiskAdjusted, m.IBNR)
	return m, nil
}

// AssessPortfolio runs the binding assessment over the whole book.
func AssessPortfolio(policies []models.EnrichedPolicy, rules config.Rules) (Assessment, error) {
	if len(policies) == 0 {
		return Assessment{}, fmt.Errorf("assess portfolio: %w", models.ErrEmptyInput)
	}
	var totalPremium float64
	var totalClaims int
	for _, p := range policies {
		totalPremium += p.PremiumAmount
		totalClaims += p.PreviousClaims
	}
	return Assess("Portfolio", len(policies), totalPremium, totalClaims, rules), nil
}

// AnalyzeByCategory assesses each risk category segment independently, in
// category severity order. Categories absent from the book are skipped.
func AnalyzeByCategory(policies []models.EnrichedPolicy, rules config.Rules) ([]Assessment, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("analyze by category: %w", models.ErrEmptyInput)
	}

	type totals struct {
		count   int
		premium float64
		claims  int
	}
	byCat := make(map[models.RiskCategory]totals)
	for _, p := range policies {
		t := byCat[p.RiskCategory]
		t.count++
		t.premium += p.PremiumAmount
		t.claims += p.PreviousClaims
		byCat[p.RiskCategory] = t
	}

	assessments := make([]Assessment, 0, len(byCat))
	for _, cat := range models.RiskCategoryOrder {
		t, ok := byCat[cat]
		if !ok {
			continue
		}
		assessments = append(assessments, Assess(string(cat), t.count, t.premium, t.claims, rules))
	}
	return assessments, nil
}

// Recommendations turns per-category assessments plus the portfolio verdict
// into prioritized actions for the reserve report.
func Recommendations(portfolio Assessment, byCategory []Assessment) []Recommendation {
	recs := make([]Recommendation, 0, len(byCategory)+1)
	for _, a := range byCategory {
		recs = append(recs, recommendFor(a))
	}
	if portfolio.Adequacy < 0 {
		recs = append(recs, Recommendation{
			Group:    portfolio.Group,
			Priority: models.PriorityCritical,
			Action:   "Raise additional capital or reduce exposure",
			Reason: fmt.Sprintf("portfolio reserves short by %.2f against required %.2f",
				-portfolio.Adequacy, portfolio.RequiredReserves),
		})
	}
	return recs
}

func recommendFor(a Assessment) Recommendation {
	rec := Recommendation{Group: a.Group}
	switch {
	case a.Adequacy < 0:
		rec.Priority = models.PriorityMedium
		if a.CoverageRatio.Defined && a.CoverageRatio.Value < 0.5 {
			rec.Priority = models.PriorityHigh
		}
		rec.Action = "Increase reserves"
		rec.Reason = fmt.Sprintf("adequacy %.2f below zero", a.Adequacy)
	case a.CoverageRatio.Defined && a.CoverageRatio.Value < 1.2:
		rec.Priority = models.PriorityMedium
		rec.Action = "Build additional buffer"
		rec.Reason = fmt.Sprintf("coverage ratio %.2f leaves a thin margin", a.CoverageRatio.Value)
	default:
		// Undefined coverage means zero claims exposure, which is the
		// safest position a segment can be in.
		rec.Priority = models.PriorityLow
		rec.Action = "Maintain current reserves"
		rec.Reason = fmt.Sprintf("coverage ratio %s is comfortable", a.CoverageRatio.String())
	}
	return rec
}
