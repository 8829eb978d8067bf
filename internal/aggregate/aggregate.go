// Package aggregate computes grouped summary tables over enriched policies.
// All reductions are sums and counts over immutable data, so any reduction
// order is fine; output ordering is made deterministic explicitly.
package aggregate

import (
	"fmt"
	"sort"

	"policy-analytics/internal/models"
)

// Dimension is a named grouping of the enriched table. Rank orders the groups
// in the output when the dimension has a natural band order; dimensions
// without one fall back to lexicographic order.
type Dimension struct {
	Name string
	Key  func(models.EnrichedPolicy) string
	Rank map[string]int
}

func rankOf[T ~string](order []T) map[string]int {
	m := make(map[string]int, len(order))
	for i, v := range order {
		m[string(v)] = i
	}
	return m
}

var (
	ByPolicyType = Dimension{
		Name: "policy_type",
		Key:  func(p models.EnrichedPolicy) string { return p.PolicyType },
	}
	ByRiskCategory = Dimension{
		Name: "risk_category",
		Key:  func(p models.EnrichedPolicy) string { return string(p.RiskCategory) },
		Rank: rankOf(models.RiskCategoryOrder),
	}
	ByLocation = Dimension{
		Name: "location",
		Key:  func(p models.EnrichedPolicy) string { return p.Location },
	}
	ByAgeGroup = Dimension{
		Name: "age_group",
		Key:  func(p models.EnrichedPolicy) string { return string(p.AgeGroup) },
		Rank: rankOf(models.AgeGroupOrder),
	}
	ByIncomeBracket = Dimension{
		Name: "income_bracket",
		Key:  func(p models.EnrichedPolicy) string { return string(p.IncomeBracket) },
		Rank: rankOf(models.IncomeBracketOrder),
	}
	ByPolicyTypeAndRisk = Dimension{
		Name: "policy_type_risk",
		Key: func(p models.EnrichedPolicy) string {
			return p.PolicyType + " / " + string(p.RiskCategory)
		},
	}
	ByIncomeAndRisk = Dimension{
		Name: "income_risk",
		Key: func(p models.EnrichedPolicy) string {
			return string(p.IncomeBracket) + " / " + string(p.RiskCategory)
		},
	}
)

// Dimensions lists every summary table the pipeline emits, in artifact order.
func Dimensions() []Dimension {
	return []Dimension{
		ByPolicyType,
		ByRiskCategory,
		ByLocation,
		ByAgeGroup,
		ByIncomeBracket,
		ByPolicyTypeAndRisk,
		ByIncomeAndRisk,
	}
}

// Summary is one output row of a grouped summary table.
type Summary struct {
	Group             string       `json:"group" db:"group_value"`
	Count             int          `json:"count" db:"policy_count"`
	TotalPremium      float64      `json:"total_premium" db:"total_premium"`
	AvgPremium        float64      `json:"avg_premium" db:"avg_premium"`
	MedianPremium     float64      `json:"median_premium" db:"median_premium"`
	TotalClaims       int          `json:"total_claims" db:"total_claims"`
	AvgClaims         float64      `json:"avg_claims" db:"avg_claims"`
	ClaimsExposure    float64      `json:"claims_exposure" db:"claims_exposure"`
	LossRatio         models.Ratio `json:"loss_ratio" db:"loss_ratio"`
	ClaimFrequencyPct float64      `json:"claim_frequency_pct" db:"claim_frequency_pct"`
	SmokingPct        float64      `json:"smoking_pct" db:"smoking_pct"`
	AvgRiskScore      float64      `json:"avg_risk_score" db:"avg_risk_score"`
}

// Options declares per-call aggregation behavior. MinGroupCount drops groups
// below the threshold; it defaults to zero because only specific pricing
// adequacy views filter small groups.
type Options struct {
	MinGroupCount int
}

// Summarize produces one Summary per distinct group of dim, in deterministic
// order. Groups are never dropped except by an explicit MinGroupCount.
func Summarize(policies []models.EnrichedPolicy, dim Dimension, opts Options) ([]Summary, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("summarize %s: %w", dim.Name, models.ErrEmptyInput)
	}

	groups := make(map[string][]models.EnrichedPolicy)
	for _, p := range policies {
		key := dim.Key(p)
		groups[key] = append(groups[key], p)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if dim.Rank != nil {
			ri, iok := dim.Rank[keys[i]]
			rj, jok := dim.Rank[keys[j]]
			if iok && jok {
				return ri < rj
			}
			if iok != jok {
				return iok
			}
		}
		return keys[i] < keys[j]
	})

	summaries := make([]Summary, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		if len(members) < opts.MinGroupCount {
			continue
		}
		summaries = append(summaries, summarizeGroup(key, members))
	}
	return summaries, nil
}

func summarizeGroup(key string, members []models.EnrichedPolicy) Summary {
	s := Summary{Group: key, Count: len(members)}

	premiums := make([]float64, 0, len(members))
	var withClaims, smokers int
	var riskScoreSum int
	for _, p := range members {
		s.TotalPremium += p.PremiumAmount
		s.TotalClaims += p.PreviousClaims
		s.ClaimsExposure += p.ClaimsExposure
		premiums = append(premiums, p.PremiumAmount)
		riskScoreSum += p.RiskScore
		if p.PreviousClaims > 0 {
			withClaims++
		}
		if p.SmokingStatus == models.SmokingYes {
			smokers++
		}
	}

	n := float64(len(members))
	s.AvgPremium = s.TotalPremium / n
	s.AvgClaims = float64(s.TotalClaims) / n
	s.MedianPremium = Median(premiums)
	s.LossRatio = models.Divide(s.ClaimsExposure, s.TotalPremium)
	s.ClaimFrequencyPct = float64(withClaims) / n * 100
	s.SmokingPct = float64(smokers) / n * 100
	s.AvgRiskScore = float64(riskScoreSum) / n
	return s
}

// Percentile computes the p-th percentile (0..100) of values using linear
// interpolation on the sorted data, the definition shared by every summary
// table. The input slice is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func Median(values []float64) float64 {
	return Percentile(values, 50)
}
