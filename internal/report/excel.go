package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"policy-analytics/internal/aggregate"
	"policy-analytics/internal/models"
	"policy-analytics/internal/reserve"
)

const (
	sheetExecSummary = "Executive Summary"
	sheetRiskAnal    = "Risk Analysis"
	sheetReserveMon  = "Reserve Monitoring"

	// Board-level targets shown next to each KPI.
	targetLossRatio   = 0.70
	targetHighRiskPct = 20.0
)

// WorkbookInput collects everything the Excel report renders. Caller fills
// the fields from pipeline output; the writer never recomputes figures.
type WorkbookInput struct {
	KPIs           KPISet
	ByRiskCategory []aggregate.Summary
	ByAgeGroup     []aggregate.Summary
	Portfolio      reserve.Assessment
	ByCategory     []reserve.Assessment
	Methods        reserve.MethodFigures
	Stress         []reserve.ScenarioResult
}

// WriteWorkbook renders the three-sheet management workbook.
func WriteWorkbook(path string, in WorkbookInput) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetExecSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetRiskAnal); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetRiskAnal, err)
	}
	if _, err := f.NewSheet(sheetReserveMon); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetReserveMon, err)
	}

	if err := writeExecSummary(f, in.KPIs); err != nil {
		return err
	}
	if err := writeRiskAnalysis(f, in.ByRiskCategory, in.ByAgeGroup); err != nil {
		return err
	}
	if err := writeReserveMonitoring(f, in); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeExecSummary(f *excelize.File, k KPISet) error {
	lossStatus := "On Target"
	if !k.OverallLossRatio.Defined {
		lossStatus = "No Exposure"
	} else if k.OverallLossRatio.Value >= targetLossRatio {
		lossStatus = "Above Target"
	}
	highRiskStatus := "On Target"
	if k.HighRiskPct >= targetHighRiskPct {
		highRiskStatus = "Above Target"
	}

	rows := [][]interface{}{
		{"Metric", "Value", "Target", "Status"},
		{"Run ID", k.RunID.String(), "", ""},
		{"Generated At", k.GeneratedAt.Format("2006-01-02 15:04:05"), "", ""},
		{"Total Policies", k.TotalPolicies, "", ""},
		{"Excluded Records", k.ExcludedRecords, "", ""},
		{"Total Premium", k.TotalPremium, "", ""},
		{"Average Premium", k.AvgPremium, "", ""},
		{"Total Claims", k.TotalClaims, "", ""},
		{"Claims Exposure", k.ClaimsExposure, "", ""},
		{"Overall Loss Ratio", k.OverallLossRatio.String(), fmt.Sprintf("< %.2f", targetLossRatio), lossStatus},
		{"High Risk Share (%)", k.HighRiskPct, fmt.Sprintf("< %.0f%%", targetHighRiskPct), highRiskStatus},
		{"Average Risk Score", k.AvgRiskScore, "", ""},
		{"Smoking Share (%)", k.SmokingPct, "", ""},
		{"Customer Satisfaction (%)", k.SatisfactionPct, "", ""},
		{"Average Age", k.AvgAge, "", ""},
		{"Average Health Score", k.AvgHealthScore, "", ""},
		{"Average Lifetime Value", k.AvgLifetimeValue, "", ""},
	}
	for i, row := range rows {
		if err := setRow(f, sheetExecSummary, i+1, row...); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheetExecSummary, err)
		}
	}
	return nil
}

func summaryRows(f *excelize.File, sheet string, startRow int, title string, summaries []aggregate.Summary) (int, error) {
	if err := setRow(f, sheet, startRow, title); err != nil {
		return 0, err
	}
	startRow++
	if err := setRow(f, sheet, startRow,
		"Group", "Policies", "Total Premium", "Avg Premium", "Total Claims",
		"Loss Ratio", "Claim Frequency (%)", "Avg Risk Score"); err != nil {
		return 0, err
	}
	startRow++
	for _, s := range summaries {
		if err := setRow(f, sheet, startRow,
			s.Group, s.Count, s.TotalPremium, s.AvgPremium, s.TotalClaims,
			s.LossRatio.String(), s.ClaimFrequencyPct, s.AvgRiskScore); err != nil {
			return 0, err
		}
		startRow++
	}
	return startRow + 1, nil
}

func writeRiskAnalysis(f *excelize.File, byCategory, byAgeGroup []aggregate.Summary) error {
	row, err := summaryRows(f, sheetRiskAnal, 1, "By Risk Category", byCategory)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", sheetRiskAnal, err)
	}
	if _, err := summaryRows(f, sheetRiskAnal, row, "By Age Group", byAgeGroup); err != nil {
		return fmt.Errorf("failed to write %s: %w", sheetRiskAnal, err)
	}
	return nil
}

func writeReserveMonitoring(f *excelize.File, in WorkbookInput) error {
	rows := [][]interface{}{
		{"Capital Adequacy"},
		{"Group", "Policies", "Total Premium", "Claims Exposure", "Required Reserves", "Adequacy", "Coverage Ratio", "Status"},
	}
	appendAssessment := func(a reserve.Assessment) {
		rows = append(rows, []interface{}{
			a.Group, a.PolicyCount, a.TotalPremium, a.ClaimsExposure,
			a.RequiredReserves, a.Adequacy, a.CoverageRatio.String(), string(a.Status),
		})
	}
	appendAssessment(in.Portfolio)
	for _, a := range in.ByCategory {
		appendAssessment(a)
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Reserve Methodologies"},
		[]interface{}{"Premium Based", "Claims Based", "Risk Adjusted", "IBNR", "Maximum"},
		[]interface{}{in.Methods.PremiumBased, in.Methods.ClaimsBased, in.Methods.RiskAdjusted, in.Methods.IBNR, in.Methods.Max},
		[]interface{}{},
		[]interface{}{"Stress Scenarios"},
		[]interface{}{"Scenario", "Claims x", "Premium x", "Stressed Premium", "Stressed Exposure", "Loss Ratio", "Adequacy", "Status"},
	)
	for _, r := range in.Stress {
		status := string(r.Status)
		if r.Status == models.CapitalInadequate {
			status = "INADEQUATE"
		}
		rows = append(rows, []interface{}{
			r.Scenario, r.ClaimsMultiplier, r.PremiumMultiplier,
			r.StressedPremium, r.StressedExposure, r.LossRatio.String(),
			r.Adequacy, status,
		})
	}

	for i, row := range rows {
		if err := setRow(f, sheetReserveMon, i+1, row...); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheetReserveMon, err)
		}
	}
	return nil
}
