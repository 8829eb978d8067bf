package config

import (
	"fmt"
	"os"

	"policy-analytics/internal/models"

	"gopkg.in/yaml.v3"
)

// Rules holds the business-rule constants of the pipeline. Regulatory changes
// touch this one place; thresholds are never inlined at the call sites. Values
// can be overridden with a YAML rules file.
type Rules struct {
	// ClaimUnitCost converts a claims count into a currency exposure figure.
	ClaimUnitCost float64 `yaml:"claim_unit_cost"`

	// PremiumReserveRatio is the share of premium volume held as the required
	// reserve in the primary (premium-based) methodology.
	PremiumReserveRatio float64 `yaml:"premium_reserve_ratio"`

	// ClaimsReserveMultiplier scales claims exposure in the claims-based
	// methodology.
	ClaimsReserveMultiplier float64 `yaml:"claims_reserve_multiplier"`

	// IBNRRatio is the share of premium reserved for incurred-but-not-reported
	// claims.
	IBNRRatio float64 `yaml:"ibnr_ratio"`

	// RiskAdjustedRatios vary the reserve share of premium by risk category.
	RiskAdjustedRatios map[models.RiskCategory]float64 `yaml:"risk_adjusted_ratios"`

	// StressScenarios run in declared order; names and multipliers are part of
	// the output contract and must not depend on iteration order.
	StressScenarios []StressScenario `yaml:"stress_scenarios"`
}

type StressScenario struct {
	Name              string  `yaml:"name"`
	Description       string  `yaml:"description"`
	ClaimsMultiplier  float64 `yaml:"claims_multiplier"`
	PremiumMultiplier float64 `yaml:"premium_multiplier"`
}

func DefaultRules() Rules {
	return Rules{
		ClaimUnitCost:           1000,
		PremiumReserveRatio:     0.15,
		ClaimsReserveMultiplier: 3,
		IBNRRatio:               0.05,
		RiskAdjustedRatios: map[models.RiskCategory]float64{
			models.RiskLow:      0.10,
			models.RiskMedium:   0.15,
			models.RiskHigh:     0.25,
			models.RiskVeryHigh: 0.35,
		},
		StressScenarios: []StressScenario{
			{Name: "Base Case", Description: "Current baseline scenario", ClaimsMultiplier: 1.0, PremiumMultiplier: 1.0},
			{Name: "Mild Stress", Description: "20% increase in claims frequency", ClaimsMultiplier: 1.2, PremiumMultiplier: 1.0},
			{Name: "Moderate Stress", Description: "50% increase in claims frequency", ClaimsMultiplier: 1.5, PremiumMultiplier: 1.0},
			{Name: "Economic Downturn", Description: "Elevated claims with reduced premiums", ClaimsMultiplier: 1.8, PremiumMultiplier: 0.9},
			{Name: "Severe Stress", Description: "100% increase in claims frequency", ClaimsMultiplier: 2.0, PremiumMultiplier: 1.0},
			{Name: "Catastrophic Event", Description: "Catastrophic event scenario", ClaimsMultiplier: 3.0, PremiumMultiplier: 1.0},
		},
	}
}

// LoadRules returns the defaults overlaid with the YAML file at path. An empty
// path just returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

func (r Rules) Validate() error {
	if r.ClaimUnitCost <= 0 {
		return fmt.Errorf("claim_unit_cost must be positive, got %v", r.ClaimUnitCost)
	}
	if r.PremiumReserveRatio <= 0 || r.PremiumReserveRatio >= 1 {
		return fmt.Errorf("premium_reserve_ratio must be in (0,1), got %v", r.PremiumReserveRatio)
	}
	if r.IBNRRatio < 0 {
		return fmt.Errorf("ibnr_ratio must be non-negative, got %v", r.IBNRRatio)
	}
	if len(r.StressScenarios) == 0 {
		return fmt.Errorf("at least one stress scenario is required")
	}
	for _, s := range r.StressScenarios {
		if s.ClaimsMultiplier <= 0 || s.PremiumMultiplier <= 0 {
			return fmt.Errorf("stress scenario %q has non-positive multiplier", s.Name)
		}
	}
	for _, cat := range models.RiskCategoryOrder {
		if _, ok := r.RiskAdjustedRatios[cat]; !ok {
			return fmt.Errorf("risk_adjusted_ratios missing category %q", cat)
		}
	}
	return nil
}
