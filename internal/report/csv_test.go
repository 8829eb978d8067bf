package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-analytics/internal/aggregate"
	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
	"policy-analytics/internal/reserve"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// ============================================================================
// TEST SUITE 1: SUMMARY TABLES
// ============================================================================

func TestWriteSummary_RendersRatioAsNA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	summaries := []aggregate.Summary{
		{Group: "Auto", Count: 2, TotalPremium: 4000, LossRatio: models.DefinedRatio(0.5)},
		{Group: "Home", Count: 1, TotalPremium: 0, LossRatio: models.UndefinedRatio()},
	}

	require.NoError(t, WriteSummary(path, "policy_type", summaries))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "policy_type", rows[0][0])
	assert.Equal(t, "0.5", rows[1][8])
	assert.Equal(t, "N/A", rows[2][8], "undefined ratios must render as N/A, not 0")
}

func TestWriteSummary_CreatesNestedDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deep", "summary.csv")

	require.NoError(t, WriteSummary(path, "location", nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 1, "header only for an empty table")
}

// ============================================================================
// TEST SUITE 2: ENRICHED DUMP
// ============================================================================

func TestWriteEnrichedPolicies_OptionalFieldsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.csv")
	p := enriched(models.RiskLow, 1000, 0, nil)
	p.AnnualIncome = nil
	p.CreditScore = nil

	require.NoError(t, WriteEnrichedPolicies(path, []models.EnrichedPolicy{p}))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	header, row := rows[0], rows[1]
	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %q not found", name)
		return ""
	}
	assert.Equal(t, "", col("annual_income"))
	assert.Equal(t, "", col("credit_score"))
	assert.Equal(t, "", col("customer_feedback"))
	assert.Equal(t, "Low", col("risk_category"))
}

// ============================================================================
// TEST SUITE 3: RESERVE AND STRESS TABLES
// ============================================================================

func TestWriteReserveAnalysis_PortfolioRowCarriesMethods(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reserves.csv")
	rules := config.DefaultRules()
	portfolio := reserve.Assess("Portfolio", 2, 100000, 10, rules)
	byCat := []reserve.Assessment{reserve.Assess("Low", 2, 100000, 10, rules)}
	methods := reserve.MethodFigures{PremiumBased: 15000, ClaimsBased: 30000, RiskAdjusted: 10000, IBNR: 5000, Max: 30000}

	require.NoError(t, WriteReserveAnalysis(path, portfolio, byCat, methods))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "Portfolio", rows[1][0])
	assert.Equal(t, "30000.00", rows[1][13], "portfolio row carries the methodology envelope")
	assert.Equal(t, "", rows[2][13], "category rows leave the methodology columns blank")
}

func TestWriteStressResults_RowPerScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.csv")
	policies := []models.EnrichedPolicy{enriched(models.RiskLow, 100000, 50, nil)}
	results, err := reserve.RunStressTest(policies, config.DefaultRules())
	require.NoError(t, err)

	require.NoError(t, WriteStressResults(path, results))

	rows := readCSV(t, path)
	require.Len(t, rows, 7)
	assert.Equal(t, "Base Case", rows[1][0])
	assert.Equal(t, "Catastrophic Event", rows[6][0])
}

// ============================================================================
// TEST SUITE 4: DASHBOARD SQL
// ============================================================================

func TestRenderDashboardSQL_EmbedsCoefficients(t *testing.T) {
	sql := RenderDashboardSQL(config.DefaultRules())

	assert.Contains(t, sql, "1000.00", "claim unit cost appears in the queries")
	assert.Contains(t, sql, "0.15", "premium reserve ratio appears in the queries")
	assert.Contains(t, sql, "FROM enriched_policies")
	assert.Contains(t, sql, "ELSE NULL", "zero-premium groups must yield NULL loss ratios")
	assert.Contains(t, sql,
		"SUM(premium_amount) * 0.15 - SUM(previous_claims) * 1000.00 AS adequacy",
		"adequacy is required reserves minus exposure")
	assert.Contains(t, sql, "END AS coverage_ratio")
}

func TestWriteDashboardSQL_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard_queries.sql")

	require.NoError(t, WriteDashboardSQL(path, config.DefaultRules()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GROUP BY risk_category")
}
