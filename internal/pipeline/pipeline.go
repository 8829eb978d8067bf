// Package pipeline runs the enrichment pass: validate each policy record,
// score it, derive its reporting attributes and produce an immutable enriched
// view. Records are read once and never mutated after enrichment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"policy-analytics/internal/config"
	"policy-analytics/internal/models"
	"policy-analytics/internal/scoring"
	"policy-analytics/internal/worker"

	"github.com/google/uuid"
)

// Exclusion records one policy dropped in lenient mode, and why.
type Exclusion struct {
	Row      int              `json:"row"`
	PolicyID uuid.UUID        `json:"policy_id"`
	Kind     models.ErrorKind `json:"kind"`
	Field    string           `json:"field,omitempty"`
	Reason   string           `json:"reason"`
}

// Result is the output of one enrichment run. Policies preserve input order.
type Result struct {
	RunID    uuid.UUID
	Policies []models.EnrichedPolicy
	Excluded []Exclusion
}

type Pipeline struct {
	strictness models.StrictnessMode
	workers    int
	rules      config.Rules
}

func New(strictness models.StrictnessMode, workers int, rules config.Rules) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{strictness: strictness, workers: workers, rules: rules}
}

// Enrich validates and scores every record. In lenient mode (the default)
// offending records are excluded and reported; in strict mode the first record
// error fails the run. parseErrs carries rows the reader could not decode so
// they obey the same strictness rules as scoring failures. An empty result
// after exclusion is fatal either way.
func (p *Pipeline) Enrich(ctx context.Context, records []models.PolicyRecord, parseErrs []*models.RecordError) (*Result, error) {
	if len(records) == 0 && len(parseErrs) == 0 {
		return nil, fmt.Errorf("enrichment: %w", models.ErrEmptyInput)
	}

	enriched := make([]*models.EnrichedPolicy, len(records))
	recErrs := make([]*models.RecordError, len(records))

	// Scoring is independent per record, so fan it out across the pool. Each
	// slot is written by exactly one job.
	pool := worker.NewPool(p.workers, len(records))
	go func() {
		for i := range records {
			idx := i
			pool.Submit(func(ctx context.Context) error {
				ep, err := p.enrichOne(records[idx], idx+1)
				if err != nil {
					var re *models.RecordError
					if errors.As(err, &re) {
						recErrs[idx] = re
						return nil
					}
					return err
				}
				enriched[idx] = ep
				return nil
			})
		}
		pool.Close()
	}()
	if err := pool.Run(ctx); err != nil {
		return nil, fmt.Errorf("enrichment cancelled: %w", err)
	}

	result := &Result{RunID: uuid.New()}
	exclude := func(re *models.RecordError) error {
		if p.strictness == models.StrictnessStrict {
			return fmt.Errorf("strict mode: %w", re)
		}
		slog.Warn("excluding record from run",
			"policy_id", re.PolicyID,
			"row", re.Row,
			"kind", re.Kind,
			"field", re.Field,
			"reason", re.Reason)
		result.Excluded = append(result.Excluded, Exclusion{
			Row:      re.Row,
			PolicyID: re.PolicyID,
			Kind:     re.Kind,
			Field:    re.Field,
			Reason:   re.Reason,
		})
		return nil
	}

	for _, re := range parseErrs {
		if err := exclude(re); err != nil {
			return nil, err
		}
	}
	for i := range records {
		if re := recErrs[i]; re != nil {
			if err := exclude(re); err != nil {
				return nil, err
			}
			continue
		}
		result.Policies = append(result.Policies, *enriched[i])
	}

	if len(result.Policies) == 0 {
		return nil, fmt.Errorf("all %d records excluded: %w", len(records)+len(parseErrs), models.ErrEmptyInput)
	}

	slog.Info("enrichment completed",
		"run_id", result.RunID,
		"records", len(records),
		"enriched", len(result.Policies),
		"excluded", len(result.Excluded))
	return result, nil
}

func (p *Pipeline) enrichOne(rec models.PolicyRecord, row int) (*models.EnrichedPolicy, error) {
	if err := validate(rec, row); err != nil {
		return nil, err
	}

	score, err := scoring.RiskScore(rec)
	if err != nil {
		var re *models.RecordError
		if errors.As(err, &re) {
			re.Row = row
		}
		return nil, err
	}

	ep := &models.EnrichedPolicy{
		PolicyRecord:   rec,
		AgeGroup:       scoring.AgeGroupFor(rec.Age),
		IncomeBracket:  scoring.IncomeBracketFor(rec.AnnualIncome),
		RiskScore:      score,
		RiskCategory:   scoring.Categorize(score),
		ClaimsExposure: float64(rec.PreviousClaims) * p.rules.ClaimUnitCost,
		LifetimeValue:  rec.PremiumAmount * rec.InsuranceDuration,
		PremiumPerYear: rec.PremiumAmount / rec.InsuranceDuration,
		HighRiskFlag:   scoring.ExecutiveHighRisk(rec),
	}
	ep.LossRatio = models.Divide(ep.ClaimsExposure, rec.PremiumAmount)
	return ep, nil
}

func validate(rec models.PolicyRecord, row int) error {
	if rec.PremiumAmount < 0 {
		return models.NewInvalidValue(rec.ID, row, "premium_amount", "negative premium")
	}
	if rec.PreviousClaims < 0 {
		return models.NewInvalidValue(rec.ID, row, "previous_claims", "negative claims count")
	}
	if rec.InsuranceDuration <= 0 {
		return models.NewInvalidValue(rec.ID, row, "insurance_duration", "duration must be positive")
	}
	if rec.AnnualIncome != nil && *rec.AnnualIncome < 0 {
		return models.NewInvalidValue(rec.ID, row, "annual_income", "negative income")
	}
	return nil
}
