// Package warehouse loads run output into PostgreSQL so BI dashboards can
// query it. The pipeline never reads the warehouse back; export failures are
// reported but must not fail the run.
package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"policy-analytics/internal/aggregate"
	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
	"policy-analytics/internal/report"
	"policy-analytics/internal/reserve"
)

var schema = `
CREATE TABLE IF NOT EXISTS analytics_runs (
    run_id UUID PRIMARY KEY,
    generated_at TIMESTAMPTZ NOT NULL,
    total_policies INTEGER NOT NULL,
    excluded_records INTEGER NOT NULL,
    total_premium DOUBLE PRECISION NOT NULL,
    total_claims INTEGER NOT NULL,
    overall_loss_ratio DOUBLE PRECISION,
    avg_risk_score DOUBLE PRECISION NOT NULL,
    high_risk_pct DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS enriched_policies (
    policy_id UUID PRIMARY KEY,
    run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
    age INTEGER NOT NULL,
    age_group TEXT NOT NULL,
    annual_income DOUBLE PRECISION,
    income_bracket TEXT NOT NULL,
    policy_type TEXT NOT NULL,
    location TEXT NOT NULL,
    premium_amount DOUBLE PRECISION NOT NULL,
    previous_claims INTEGER NOT NULL,
    insurance_duration DOUBLE PRECISION NOT NULL,
    risk_score INTEGER NOT NULL,
    risk_category TEXT NOT NULL,
    claims_exposure DOUBLE PRECISION NOT NULL,
    lifetime_value DOUBLE PRECISION NOT NULL,
    loss_ratio DOUBLE PRECISION,
    high_risk_flag BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS dimension_summaries (
    run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
    dimension TEXT NOT NULL,
    group_value TEXT NOT NULL,
    policy_count INTEGER NOT NULL,
    total_premium DOUBLE PRECISION NOT NULL,
    avg_premium DOUBLE PRECISION NOT NULL,
    median_premium DOUBLE PRECISION NOT NULL,
    total_claims INTEGER NOT NULL,
    claims_exposure DOUBLE PRECISION NOT NULL,
    loss_ratio DOUBLE PRECISION,
    claim_frequency_pct DOUBLE PRECISION NOT NULL,
    avg_risk_score DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_id, dimension, group_value)
);

CREATE TABLE IF NOT EXISTS reserve_assessments (
    run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
    group_value TEXT NOT NULL,
    policy_count INTEGER NOT NULL,
    total_premium DOUBLE PRECISION NOT NULL,
    claims_exposure DOUBLE PRECISION NOT NULL,
    required_reserves DOUBLE PRECISION NOT NULL,
    adequacy DOUBLE PRECISION NOT NULL,
    coverage_ratio DOUBLE PRECISION,
    status TEXT NOT NULL,
    PRIMARY KEY (run_id, group_value)
);

CREATE TABLE IF NOT EXISTS stress_results (
    run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
    scenario TEXT NOT NULL,
    claims_multiplier DOUBLE PRECISION NOT NULL,
    premium_multiplier DOUBLE PRECISION NOT NULL,
    stressed_premium DOUBLE PRECISION NOT NULL,
    stressed_exposure DOUBLE PRECISION NOT NULL,
    loss_ratio DOUBLE PRECISION,
    adequacy DOUBLE PRECISION NOT NULL,
    status TEXT NOT NULL,
    PRIMARY KEY (run_id, scenario)
);
`

type Warehouse struct {
	db *sqlx.DB
}

// Connect opens the warehouse and applies the schema. Tables are created
// idempotently so a fresh database needs no manual setup.
func Connect(cfg config.PostgresConfig) (*Warehouse, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply warehouse schema: %w", err)
	}
	slog.Info("Warehouse connected", "host", cfg.Host, "database", cfg.DBname)
	return &Warehouse{db: db}, nil
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

// RunExport is everything one pipeline run writes to the warehouse.
type RunExport struct {
	KPIs       report.KPISet
	Policies   []models.EnrichedPolicy
	Summaries  map[string][]aggregate.Summary
	Portfolio  reserve.Assessment
	ByCategory []reserve.Assessment
	Stress     []reserve.ScenarioResult
}

// Export loads one run inside a single transaction so dashboards never see a
// half-written run.
func (w *Warehouse) Export(ctx context.Context, exp RunExport) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, exp.KPIs); err != nil {
		return err
	}
	if err := insertPolicies(ctx, tx, exp.KPIs.RunID, exp.Policies); err != nil {
		return err
	}
	for dim, summaries := range exp.Summaries {
		if err := insertSummaries(ctx, tx, exp.KPIs.RunID, dim, summaries); err != nil {
			return err
		}
	}
	assessments := append([]reserve.Assessment{exp.Portfolio}, exp.ByCategory...)
	if err := insertAssessments(ctx, tx, exp.KPIs.RunID, assessments); err != nil {
		return err
	}
	if err := insertStress(ctx, tx, exp.KPIs.RunID, exp.Stress); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export transaction: %w", err)
	}
	slog.Info("Warehouse export committed",
		"run_id", exp.KPIs.RunID,
		"policies", len(exp.Policies),
		"summary_tables", len(exp.Summaries))
	return nil
}

func insertRun(ctx context.Context, tx *sqlx.Tx, k report.KPISet) error {
	query := `
		INSERT INTO analytics_runs (
			run_id, generated_at, total_policies, excluded_records,
			total_premium, total_claims, overall_loss_ratio,
			avg_risk_score, high_risk_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := tx.ExecContext(ctx, query,
		k.RunID, k.GeneratedAt, k.TotalPolicies, k.ExcludedRecords,
		k.TotalPremium, k.TotalClaims, k.OverallLossRatio.Ptr(),
		k.AvgRiskScore, k.HighRiskPct)
	if err != nil {
		return fmt.Errorf("failed to insert run row: %w", err)
	}
	return nil
}

func insertPolicies(ctx context.Context, tx *sqlx.Tx, runID uuid.UUID, policies []models.EnrichedPolicy) error {
	query := `
		INSERT INTO enriched_policies (
			policy_id, run_id, age, age_group, annual_income, income_bracket,
			policy_type, location, premium_amount, previous_claims,
			insurance_duration, risk_score, risk_category, claims_exposure,
			lifetime_value, loss_ratio, high_risk_flag
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	for _, p := range policies {
		_, err := tx.ExecContext(ctx, query,
			p.ID, runID, p.Age, string(p.AgeGroup), p.AnnualIncome, string(p.IncomeBracket),
			p.PolicyType, p.Location, p.PremiumAmount, p.PreviousClaims,
			p.InsuranceDuration, p.RiskScore, string(p.RiskCategory), p.ClaimsExposure,
			p.LifetimeValue, p.LossRatio.Ptr(), p.HighRiskFlag)
		if err != nil {
			return fmt.Errorf("failed to insert policy %s: %w", p.ID, err)
		}
	}
	return nil
}

func insertSummaries(ctx context.Context, tx *sqlx.Tx, runID uuid.UUID, dim string, summaries []aggregate.Summary) error {
	query := `
		INSERT INTO dimension_summaries (
			run_id, dimension, group_value, policy_count, total_premium,
			avg_premium, median_premium, total_claims, claims_exposure,
			loss_ratio, claim_frequency_pct, avg_risk_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, s := range summaries {
		_, err := tx.ExecContext(ctx, query,
			runID, dim, s.Group, s.Count, s.TotalPremium,
			s.AvgPremium, s.MedianPremium, s.TotalClaims, s.ClaimsExposure,
			s.LossRatio.Ptr(), s.ClaimFrequencyPct, s.AvgRiskScore)
		if err != nil {
			return fmt.Errorf("failed to insert summary %s/%s: %w", dim, s.Group, err)
		}
	}
	return nil
}

func insertAssessments(ctx context.Context, tx *sqlx.Tx, runID uuid.UUID, assessments []reserve.Assessment) error {
	query := `
		INSERT INTO reserve_assessments (
			run_id, group_value, policy_count, total_premium, claims_exposure,
			required_reserves, adequacy, coverage_ratio, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, a := range assessments {
		_, err := tx.ExecContext(ctx, query,
			runID, a.Group, a.PolicyCount, a.TotalPremium, a.ClaimsExposure,
			a.RequiredReserves, a.Adequacy, a.CoverageRatio.Ptr(), string(a.Status))
		if err != nil {
			return fmt.Errorf("failed to insert assessment %s: %w", a.Group, err)
		}
	}
	return nil
}

func insertStress(ctx context.Context, tx *sqlx.Tx, runID uuid.UUID, results []reserve.ScenarioResult) error {
	query := `
		INSERT INTO stress_results (
			run_id, scenario, claims_multiplier, premium_multiplier,
			stressed_premium, stressed_exposure, loss_ratio, adequacy, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, r := range results {
		_, err := tx.ExecContext(ctx, query,
			runID, r.Scenario, r.ClaimsMultiplier, r.PremiumMultiplier,
			r.StressedPremium, r.StressedExposure, r.LossRatio.Ptr(), r.Adequacy, string(r.Status))
		if err != nil {
			return fmt.Errorf("failed to insert stress row %s: %w", r.Scenario, err)
		}
	}
	return nil
}
