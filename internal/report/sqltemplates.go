package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"policy-analytics/internal/config"
)

// RenderDashboardSQL produces the BI dashboard query file against the
// warehouse tables. The queries embed the configured reserve coefficients so
// the dashboard and the pipeline can never disagree on a ratio.
func RenderDashboardSQL(rules config.Rules) string {
	var b strings.Builder

	b.WriteString("-- Dashboard queries over the policy analytics warehouse tables.\n")
	b.WriteString("-- Generated per run; coefficients below mirror the active rule set.\n\n")

	b.WriteString("-- Portfolio KPI overview\n")
	b.WriteString("SELECT\n")
	b.WriteString("    COUNT(*) AS total_policies,\n")
	b.WriteString("    SUM(premium_amount) AS total_premium,\n")
	b.WriteString("    AVG(premium_amount) AS avg_premium,\n")
	b.WriteString("    SUM(previous_claims) AS total_claims,\n")
	fmt.Fprintf(&b, "    SUM(previous_claims) * %.2f AS claims_exposure,\n", rules.ClaimUnitCost)
	b.WriteString("    CASE\n")
	b.WriteString("        WHEN SUM(premium_amount) > 0\n")
	fmt.Fprintf(&b, "        THEN SUM(previous_claims) * %.2f / SUM(premium_amount)\n", rules.ClaimUnitCost)
	b.WriteString("        ELSE NULL\n")
	b.WriteString("    END AS overall_loss_ratio,\n")
	b.WriteString("    AVG(risk_score) AS avg_risk_score\n")
	b.WriteString("FROM enriched_policies;\n\n")

	b.WriteString("-- Loss ratio by risk category\n")
	b.WriteString("SELECT\n")
	b.WriteString("    risk_category,\n")
	b.WriteString("    COUNT(*) AS policy_count,\n")
	b.WriteString("    SUM(premium_amount) AS total_premium,\n")
	b.WriteString("    CASE\n")
	b.WriteString("        WHEN SUM(premium_amount) > 0\n")
	fmt.Fprintf(&b, "        THEN SUM(previous_claims) * %.2f / SUM(premium_amount)\n", rules.ClaimUnitCost)
	b.WriteString("        ELSE NULL\n")
	b.WriteString("    END AS loss_ratio\n")
	b.WriteString("FROM enriched_policies\n")
	b.WriteString("GROUP BY risk_category\n")
	b.WriteString("ORDER BY\n")
	b.WriteString("    CASE risk_category\n")
	b.WriteString("        WHEN 'Low' THEN 1\n")
	b.WriteString("        WHEN 'Medium' THEN 2\n")
	b.WriteString("        WHEN 'High' THEN 3\n")
	b.WriteString("        WHEN 'Very High' THEN 4\n")
	b.WriteString("    END;\n\n")

	b.WriteString("-- Capital adequacy by risk category\n")
	b.WriteString("SELECT\n")
	b.WriteString("    risk_category,\n")
	fmt.Fprintf(&b, "    SUM(premium_amount) * %.2f AS required_reserves,\n", rules.PremiumReserveRatio)
	fmt.Fprintf(&b, "    SUM(premium_amount) * %.2f - SUM(previous_claims) * %.2f AS adequacy,\n",
		rules.PremiumReserveRatio, rules.ClaimUnitCost)
	b.WriteString("    CASE\n")
	b.WriteString("        WHEN SUM(previous_claims) > 0\n")
	fmt.Fprintf(&b, "        THEN SUM(premium_amount) * %.2f / (SUM(previous_claims) * %.2f)\n",
		rules.PremiumReserveRatio, rules.ClaimUnitCost)
	b.WriteString("        ELSE NULL\n")
	b.WriteString("    END AS coverage_ratio\n")
	b.WriteString("FROM enriched_policies\n")
	b.WriteString("GROUP BY risk_category;\n\n")

	b.WriteString("-- High risk concentration by location\n")
	b.WriteString("SELECT\n")
	b.WriteString("    location,\n")
	b.WriteString("    COUNT(*) AS policy_count,\n")
	b.WriteString("    SUM(CASE WHEN risk_category IN ('High', 'Very High') THEN 1 ELSE 0 END) AS high_risk_count,\n")
	b.WriteString("    100.0 * SUM(CASE WHEN risk_category IN ('High', 'Very High') THEN 1 ELSE 0 END) / COUNT(*) AS high_risk_pct\n")
	b.WriteString("FROM enriched_policies\n")
	b.WriteString("GROUP BY location\n")
	b.WriteString("ORDER BY high_risk_pct DESC;\n\n")

	b.WriteString("-- Premium distribution by income bracket and risk category\n")
	b.WriteString("SELECT\n")
	b.WriteString("    income_bracket,\n")
	b.WriteString("    risk_category,\n")
	b.WriteString("    COUNT(*) AS policy_count,\n")
	b.WriteString("    AVG(premium_amount) AS avg_premium,\n")
	b.WriteString("    AVG(lifetime_value) AS avg_lifetime_value\n")
	b.WriteString("FROM enriched_policies\n")
	b.WriteString("GROUP BY income_bracket, risk_category\n")
	b.WriteString("ORDER BY income_bracket, risk_category;\n")

	return b.String()
}

// WriteDashboardSQL writes the rendered query file next to the CSV artifacts.
func WriteDashboardSQL(path string, rules config.Rules) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(RenderDashboardSQL(rules)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
