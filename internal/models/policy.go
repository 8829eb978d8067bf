package models

import (
	"time"

	"github.com/google/uuid"
)

// PolicyRecord is one row of the source insurance dataset. Pointer fields are
// nullable in the input; everything else is required. The ID is assigned at
// ingestion, not carried in the file.
type PolicyRecord struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Age               int       `json:"age" db:"age"`
	Gender            string    `json:"gender" db:"gender"`
	MaritalStatus     string    `json:"marital_status" db:"marital_status"`
	Dependents        int       `json:"dependents" db:"dependents"`
	Occupation        string    `json:"occupation" db:"occupation"`
	EducationLevel    string    `json:"education_level" db:"education_level"`
	AnnualIncome      *float64  `json:"annual_income,omitempty" db:"annual_income"`
	CreditScore       *float64  `json:"credit_score,omitempty" db:"credit_score"`
	HealthScore       *float64  `json:"health_score,omitempty" db:"health_score"`
	SmokingStatus     string    `json:"smoking_status" db:"smoking_status"`
	ExerciseFrequency string    `json:"exercise_frequency" db:"exercise_frequency"`
	PolicyType        string    `json:"policy_type" db:"policy_type"`
	PremiumAmount     float64   `json:"premium_amount" db:"premium_amount"`
	PreviousClaims    int       `json:"previous_claims" db:"previous_claims"`
	InsuranceDuration float64   `json:"insurance_duration" db:"insurance_duration"`
	Location          string    `json:"location" db:"location"`
	PropertyType      string    `json:"property_type" db:"property_type"`
	PolicyStartDate   time.Time `json:"policy_start_date" db:"policy_start_date"`
	CustomerFeedback  *string   `json:"customer_feedback,omitempty" db:"customer_feedback"`
}

// EnrichedPolicy is a PolicyRecord plus every derived attribute. Source
// records are never mutated; enrichment always produces a new value.
type EnrichedPolicy struct {
	PolicyRecord

	AgeGroup       AgeGroup      `json:"age_group" db:"age_group"`
	IncomeBracket  IncomeBracket `json:"income_bracket" db:"income_bracket"`
	RiskScore      int           `json:"risk_score" db:"risk_score"`
	RiskCategory   RiskCategory  `json:"risk_category" db:"risk_category"`
	ClaimsExposure float64       `json:"claims_exposure" db:"claims_exposure"`
	LifetimeValue  float64       `json:"lifetime_value" db:"lifetime_value"`
	PremiumPerYear float64       `json:"premium_per_year" db:"premium_per_year"`
	LossRatio      Ratio         `json:"loss_ratio" db:"loss_ratio"`

	// HighRiskFlag is the executive-summary flagging heuristic. It is a
	// different, intentionally separate view from RiskCategory.
	HighRiskFlag bool `json:"high_risk_flag" db:"high_risk_flag"`
}
