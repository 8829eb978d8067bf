package reserve

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func enriched(category models.RiskCategory, premium float64, claims int) models.EnrichedPolicy {
	return models.EnrichedPolicy{
		PolicyRecord: models.PolicyRecord{
			ID:             uuid.New(),
			PremiumAmount:  premium,
			PreviousClaims: claims,
		},
		RiskCategory:   category,
		ClaimsExposure: float64(claims) * 1000,
	}
}

// ============================================================================
// TEST SUITE 1: CAPITAL ADEQUACY
// ============================================================================

func TestAssess_RequiredReservesArePremiumBased(t *testing.T) {
	a := Assess("Portfolio", 10, 100000, 0, config.DefaultRules())

	assert.Equal(t, 15000.0, a.RequiredReserves, "15% of 100000 premium")
	assert.Equal(t, 15000.0, a.Adequacy, "no exposure leaves the whole reserve as headroom")
	assert.Equal(t, models.CapitalAdequate, a.Status)
}

func TestAssess_AdequateWithClaims(t *testing.T) {
	// 100000 premium, 10 claims: reserves 15000 against 10000 exposure.
	a := Assess("Portfolio", 10, 100000, 10, config.DefaultRules())

	assert.Equal(t, 10000.0, a.ClaimsExposure)
	assert.Equal(t, 5000.0, a.Adequacy, "15000 required minus 10000 exposure")
	assert.Equal(t, models.CapitalAdequate, a.Status)
}

func TestAssess_Inadequate(t *testing.T) {
	// 100000 premium, 20 claims: 15000 - 20000 = -5000.
	a := Assess("Portfolio", 10, 100000, 20, config.DefaultRules())

	assert.Equal(t, -5000.0, a.Adequacy)
	assert.Equal(t, models.CapitalInadequate, a.Status)
}

func TestAssess_ExactlyZeroAdequacyIsAdequate(t *testing.T) {
	// 100000 premium, 15 claims: exposure equals required reserves exactly.
	a := Assess("Portfolio", 10, 100000, 15, config.DefaultRules())

	assert.Equal(t, 0.0, a.Adequacy)
	assert.Equal(t, models.CapitalAdequate, a.Status, "the flip to Inadequate is strictly below zero")
}

func TestAssess_CoverageIsRequiredOverExposure(t *testing.T) {
	a := Assess("Portfolio", 10, 100000, 10, config.DefaultRules())

	require.True(t, a.CoverageRatio.Defined)
	assert.Equal(t, 1.5, a.CoverageRatio.Value, "15000 required over 10000 exposure")
}

func TestAssess_CoverageUndefinedWithoutExposure(t *testing.T) {
	a := Assess("Portfolio", 10, 100000, 0, config.DefaultRules())

	assert.False(t, a.CoverageRatio.Defined)
	assert.Equal(t, "N/A", a.CoverageRatio.String())
}

func TestAssessPortfolio_EmptyInput(t *testing.T) {
	_, err := AssessPortfolio(nil, config.DefaultRules())

	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

// ============================================================================
// TEST SUITE 2: RESERVE METHODOLOGIES
// ============================================================================

func TestMethods_ParallelFigures(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 60000, 10),
		enriched(models.RiskHigh, 40000, 20),
	}

	m, err := Methods(policies, config.DefaultRules())

	require.NoError(t, err)
	assert.Equal(t, 15000.0, m.PremiumBased, "15% of 100000")
	assert.Equal(t, 90000.0, m.ClaimsBased, "3x the 30000 exposure")
	assert.Equal(t, 16000.0, m.RiskAdjusted, "10% of 60000 plus 25% of 40000")
	assert.Equal(t, 5000.0, m.IBNR, "5% of 100000")
	assert.Equal(t, 90000.0, m.Max)
}

func TestMethods_EmptyInput(t *testing.T) {
	_, err := Methods(nil, config.DefaultRules())

	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

// ============================================================================
// TEST SUITE 3: PER-CATEGORY ANALYSIS
// ============================================================================

func TestAnalyzeByCategory_SeverityOrderSkipsAbsent(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskVeryHigh, 10000, 5),
		enriched(models.RiskLow, 50000, 0),
		enriched(models.RiskLow, 30000, 1),
	}

	assessments, err := AnalyzeByCategory(policies, config.DefaultRules())

	require.NoError(t, err)
	require.Len(t, assessments, 2, "categories absent from the book are skipped")
	assert.Equal(t, "Low", assessments[0].Group)
	assert.Equal(t, 2, assessments[0].PolicyCount)
	assert.Equal(t, 80000.0, assessments[0].TotalPremium)
	assert.Equal(t, "Very High", assessments[1].Group)
}

// ============================================================================
// TEST SUITE 4: RECOMMENDATIONS
// ============================================================================

func TestRecommendations_ShortfallPriorities(t *testing.T) {
	rules := config.DefaultRules()

	// 15000 required against 20000 exposure: coverage 0.75, adequacy -5000.
	// A shortfall with coverage at or above 0.5 is a Medium.
	medium := Assess("High", 5, 100000, 20, rules)
	// 15000 required against 40000 exposure: coverage 0.375 is a deep
	// shortfall, a High.
	high := Assess("Very High", 3, 100000, 40, rules)

	recs := Recommendations(Assess("Portfolio", 8, 500000, 0, rules), []Assessment{medium, high})

	require.Len(t, recs, 2)
	assert.Equal(t, models.PriorityMedium, recs[0].Priority)
	assert.Equal(t, "Increase reserves", recs[0].Action)
	assert.Equal(t, models.PriorityHigh, recs[1].Priority)
}

func TestRecommendations_ThinBuffer(t *testing.T) {
	rules := config.DefaultRules()
	// 15000 required against 13000 exposure: coverage 1.15, adequate but thin.
	a := Assess("Medium", 5, 100000, 13, rules)
	require.Equal(t, models.CapitalAdequate, a.Status)

	recs := Recommendations(Assess("Portfolio", 5, 500000, 0, rules), []Assessment{a})

	require.Len(t, recs, 1)
	assert.Equal(t, models.PriorityMedium, recs[0].Priority)
	assert.Equal(t, "Build additional buffer", recs[0].Action)
}

func TestRecommendations_ComfortableCoverageIsMaintain(t *testing.T) {
	rules := config.DefaultRules()
	// 15000 required against 10000 exposure: coverage 1.5 clears the 1.2 bar.
	a := Assess("Low", 5, 100000, 10, rules)

	recs := Recommendations(Assess("Portfolio", 5, 500000, 0, rules), []Assessment{a})

	require.Len(t, recs, 1)
	assert.Equal(t, models.PriorityLow, recs[0].Priority)
	assert.Equal(t, "Maintain current reserves", recs[0].Action)
}

func TestRecommendations_NoExposureIsMaintain(t *testing.T) {
	rules := config.DefaultRules()
	a := Assess("Low", 5, 100000, 0, rules)

	recs := Recommendations(Assess("Portfolio", 5, 100000, 0, rules), []Assessment{a})

	require.Len(t, recs, 1)
	assert.Equal(t, models.PriorityLow, recs[0].Priority)
	assert.Equal(t, "Maintain current reserves", recs[0].Action)
}

func TestRecommendations_PortfolioShortfallIsCritical(t *testing.T) {
	rules := config.DefaultRules()
	portfolio := Assess("Portfolio", 5, 100000, 20, rules)
	require.Equal(t, models.CapitalInadequate, portfolio.Status)

	recs := Recommendations(portfolio, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, models.PriorityCritical, recs[0].Priority)
	assert.Equal(t, "Portfolio", recs[0].Group)
}
