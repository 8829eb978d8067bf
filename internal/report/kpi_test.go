package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-analytics/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func enriched(category models.RiskCategory, premium float64, claims int, feedback *string) models.EnrichedPolicy {
	return models.EnrichedPolicy{
		PolicyRecord: models.PolicyRecord{
			ID:               uuid.New(),
			Age:              40,
			HealthScore:      fp(60),
			PremiumAmount:    premium,
			PreviousClaims:   claims,
			SmokingStatus:    "No",
			CustomerFeedback: feedback,
		},
		RiskCategory:   category,
		RiskScore:      4,
		ClaimsExposure: float64(claims) * 1000,
		LifetimeValue:  premium * 5,
	}
}

// ============================================================================
// TEST SUITE: KPI SNAPSHOT
// ============================================================================

func TestComputeKPIs_EmptyInput(t *testing.T) {
	_, err := ComputeKPIs(uuid.New(), nil, 0)

	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestComputeKPIs_PortfolioTotals(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 1000, 1, sp("Good")),
		enriched(models.RiskHigh, 3000, 0, sp("Poor")),
		enriched(models.RiskVeryHigh, 2000, 2, nil),
	}

	k, err := ComputeKPIs(uuid.New(), policies, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, k.TotalPolicies)
	assert.Equal(t, 2, k.ExcludedRecords)
	assert.Equal(t, 6000.0, k.TotalPremium)
	assert.Equal(t, 2000.0, k.AvgPremium)
	assert.Equal(t, 3, k.TotalClaims)
	assert.Equal(t, 3000.0, k.ClaimsExposure)
	require.True(t, k.OverallLossRatio.Defined)
	assert.Equal(t, 0.5, k.OverallLossRatio.Value)
}

func TestComputeKPIs_HighRiskShare(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 1000, 0, nil),
		enriched(models.RiskMedium, 1000, 0, nil),
		enriched(models.RiskHigh, 1000, 0, nil),
		enriched(models.RiskVeryHigh, 1000, 0, nil),
	}

	k, err := ComputeKPIs(uuid.New(), policies, 0)

	require.NoError(t, err)
	assert.Equal(t, 50.0, k.HighRiskPct, "High and Very High both count as high risk")
}

func TestComputeKPIs_SatisfactionOverPresentFeedbackOnly(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 1000, 0, sp(models.FeedbackExcellent)),
		enriched(models.RiskLow, 1000, 0, sp(models.FeedbackGood)),
		enriched(models.RiskLow, 1000, 0, sp("Poor")),
		enriched(models.RiskLow, 1000, 0, sp(models.FeedbackAverage)),
		enriched(models.RiskLow, 1000, 0, nil),
		enriched(models.RiskLow, 1000, 0, nil),
	}

	k, err := ComputeKPIs(uuid.New(), policies, 0)

	require.NoError(t, err)
	assert.Equal(t, 50.0, k.SatisfactionPct, "2 of 4 responses are Good or Excellent; missing feedback is out of the denominator")
}

func TestComputeKPIs_NoFeedbackAtAll(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 1000, 0, nil),
	}

	k, err := ComputeKPIs(uuid.New(), policies, 0)

	require.NoError(t, err)
	assert.Equal(t, 0.0, k.SatisfactionPct)
}

func TestComputeKPIs_ZeroPremiumBook(t *testing.T) {
	policies := []models.EnrichedPolicy{
		enriched(models.RiskLow, 0, 1, nil),
	}

	k, err := ComputeKPIs(uuid.New(), policies, 0)

	require.NoError(t, err)
	assert.False(t, k.OverallLossRatio.Defined)
}
