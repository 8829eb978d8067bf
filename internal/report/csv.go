package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"policy-analytics/internal/aggregate"
	"policy-analytics/internal/models"
	"policy-analytics/internal/pipeline"
	"policy-analytics/internal/reserve"
)

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
func itoa(v int) string { return strconv.Itoa(v) }

func ratioCell(r models.Ratio) string { return r.String() }

func writeCSVFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteEnrichedPolicies dumps the full enriched book, one row per policy, in
// input order.
func WriteEnrichedPolicies(path string, policies []models.EnrichedPolicy) error {
	header := []string{
		"policy_id", "age", "age_group", "gender", "marital_status", "dependents",
		"occupation", "education_level", "annual_income", "income_bracket",
		"credit_score", "health_score", "smoking_status", "exercise_frequency",
		"policy_type", "premium_amount", "previous_claims", "insurance_duration",
		"location", "property_type", "policy_start_date", "customer_feedback",
		"risk_score", "risk_category", "claims_exposure", "lifetime_value",
		"premium_per_year", "loss_ratio", "high_risk_flag",
	}
	rows := make([][]string, 0, len(policies))
	for _, p := range policies {
		rows = append(rows, []string{
			p.ID.String(),
			itoa(p.Age),
			string(p.AgeGroup),
			p.Gender,
			p.MaritalStatus,
			itoa(p.Dependents),
			p.Occupation,
			p.EducationLevel,
			optionalFloat(p.AnnualIncome),
			string(p.IncomeBracket),
			optionalFloat(p.CreditScore),
			optionalFloat(p.HealthScore),
			p.SmokingStatus,
			p.ExerciseFrequency,
			p.PolicyType,
			f2(p.PremiumAmount),
			itoa(p.PreviousClaims),
			f2(p.InsuranceDuration),
			p.Location,
			p.PropertyType,
			p.PolicyStartDate.Format("2006-01-02"),
			optionalString(p.CustomerFeedback),
			itoa(p.RiskScore),
			string(p.RiskCategory),
			f2(p.ClaimsExposure),
			f2(p.LifetimeValue),
			f2(p.PremiumPerYear),
			ratioCell(p.LossRatio),
			strconv.FormatBool(p.HighRiskFlag),
		})
	}
	return writeCSVFile(path, header, rows)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return f2(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// WriteSummary writes one grouped summary table.
func WriteSummary(path string, dimName string, summaries []aggregate.Summary) error {
	header := []string{
		dimName, "policy_count", "total_premium", "avg_premium", "median_premium",
		"total_claims", "avg_claims", "claims_exposure", "loss_ratio",
		"claim_frequency_pct", "smoking_pct", "avg_risk_score",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Group,
			itoa(s.Count),
			f2(s.TotalPremium),
			f2(s.AvgPremium),
			f2(s.MedianPremium),
			itoa(s.TotalClaims),
			f2(s.AvgClaims),
			f2(s.ClaimsExposure),
			ratioCell(s.LossRatio),
			f2(s.ClaimFrequencyPct),
			f2(s.SmokingPct),
			f2(s.AvgRiskScore),
		})
	}
	return writeCSVFile(path, header, rows)
}

// WriteReserveAnalysis writes the portfolio verdict plus per-category
// assessments and the parallel methodology figures.
func WriteReserveAnalysis(path string, portfolio reserve.Assessment, byCategory []reserve.Assessment, methods reserve.MethodFigures) error {
	header := []string{
		"group", "policy_count", "total_premium", "total_claims", "claims_exposure",
		"required_reserves", "adequacy", "coverage_ratio", "status",
		"premium_based", "claims_based", "risk_adjusted", "ibnr", "max_reserve",
	}
	assessmentRow := func(a reserve.Assessment, m *reserve.MethodFigures) []string {
		row := []string{
			a.Group,
			itoa(a.PolicyCount),
			f2(a.TotalPremium),
			itoa(a.TotalClaims),
			f2(a.ClaimsExposure),
			f2(a.RequiredReserves),
			f2(a.Adequacy),
			ratioCell(a.CoverageRatio),
			string(a.Status),
		}
		if m != nil {
			row = append(row, f2(m.PremiumBased), f2(m.ClaimsBased), f2(m.RiskAdjusted), f2(m.IBNR), f2(m.Max))
		} else {
			row = append(row, "", "", "", "", "")
		}
		return row
	}

	rows := make([][]string, 0, len(byCategory)+1)
	rows = append(rows, assessmentRow(portfolio, &methods))
	for _, a := range byCategory {
		rows = append(rows, assessmentRow(a, nil))
	}
	return writeCSVFile(path, header, rows)
}

// WriteStressResults writes the stress test table in scenario order.
func WriteStressResults(path string, results []reserve.ScenarioResult) error {
	header := []string{
		"scenario", "description", "claims_multiplier", "premium_multiplier",
		"stressed_premium", "stressed_exposure", "loss_ratio",
		"required_reserves", "adequacy", "coverage_ratio", "status",
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Scenario,
			r.Description,
			f2(r.ClaimsMultiplier),
			f2(r.PremiumMultiplier),
			f2(r.StressedPremium),
			f2(r.StressedExposure),
			ratioCell(r.LossRatio),
			f2(r.RequiredReserves),
			f2(r.Adequacy),
			ratioCell(r.CoverageRatio),
			string(r.Status),
		})
	}
	return writeCSVFile(path, header, rows)
}

// WriteRecommendations writes the prioritized reserve actions.
func WriteRecommendations(path string, recs []reserve.Recommendation) error {
	header := []string{"group", "priority", "action", "reason"}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.Group, string(r.Priority), r.Action, r.Reason})
	}
	return writeCSVFile(path, header, rows)
}

// WriteKPIs writes the executive snapshot as metric/value pairs so the file
// stays readable without pivoting.
func WriteKPIs(path string, k KPISet) error {
	header := []string{"metric", "value"}
	rows := [][]string{
		{"run_id", k.RunID.String()},
		{"generated_at", k.GeneratedAt.Format("2006-01-02T15:04:05Z")},
		{"total_policies", itoa(k.TotalPolicies)},
		{"excluded_records", itoa(k.ExcludedRecords)},
		{"total_premium", f2(k.TotalPremium)},
		{"avg_premium", f2(k.AvgPremium)},
		{"total_claims", itoa(k.TotalClaims)},
		{"claims_exposure", f2(k.ClaimsExposure)},
		{"overall_loss_ratio", ratioCell(k.OverallLossRatio)},
		{"avg_risk_score", f4(k.AvgRiskScore)},
		{"high_risk_pct", f2(k.HighRiskPct)},
		{"smoking_pct", f2(k.SmokingPct)},
		{"satisfaction_pct", f2(k.SatisfactionPct)},
		{"avg_age", f2(k.AvgAge)},
		{"avg_health_score", f2(k.AvgHealthScore)},
		{"avg_lifetime_value", f2(k.AvgLifetimeValue)},
	}
	return writeCSVFile(path, header, rows)
}

// WriteExclusions records every row a lenient run dropped and why, so the run
// remains auditable against the raw input.
func WriteExclusions(path string, excluded []pipeline.Exclusion) error {
	header := []string{"row", "policy_id", "kind", "field", "reason"}
	rows := make([][]string, 0, len(excluded))
	for _, e := range excluded {
		rows = append(rows, []string{
			itoa(e.Row),
			e.PolicyID.String(),
			string(e.Kind),
			e.Field,
			e.Reason,
		})
	}
	return writeCSVFile(path, header, rows)
}
