// Package ingest reads the source policy dataset. It parses one CSV into
// uniform PolicyRecord values, assigning ids at ingestion. Rows that cannot be
// parsed are reported per row, not silently dropped.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"policy-analytics/internal/models"

	"github.com/google/uuid"
)

// Source column headers. Optional columns may be absent from the file
// entirely; required ones must be present in the header row.
const (
	colAge               = "Age"
	colGender            = "Gender"
	colMaritalStatus     = "Marital Status"
	colDependents        = "Number of Dependents"
	colOccupation        = "Occupation"
	colEducationLevel    = "Education Level"
	colAnnualIncome      = "Annual Income"
	colCreditScore       = "Credit Score"
	colHealthScore       = "Health Score"
	colSmokingStatus     = "Smoking Status"
	colExerciseFrequency = "Exercise Frequency"
	colPolicyType        = "Policy Type"
	colPremiumAmount     = "Premium Amount"
	colPreviousClaims    = "Previous Claims"
	colInsuranceDuration = "Insurance Duration"
	colLocation          = "Location"
	colPropertyType      = "Property Type"
	colPolicyStartDate   = "Policy Start Date"
	colCustomerFeedback  = "Customer Feedback"
)

var requiredColumns = []string{
	colAge, colGender, colSmokingStatus, colExerciseFrequency, colPolicyType,
	colPremiumAmount, colPreviousClaims, colInsuranceDuration, colLocation,
	colPolicyStartDate,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ReadPolicies parses the dataset. Malformed rows are returned separately so
// the caller can apply its strictness mode; a missing required column fails
// the whole read.
func ReadPolicies(r io.Reader) ([]models.PolicyRecord, []*models.RecordError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%s: required column %q absent from header", models.ErrKindMissingField, col)
		}
	}

	var (
		records []models.PolicyRecord
		rowErrs []*models.RecordError
	)

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		rec, rerr := parseRow(fields, idx, row)
		if rerr != nil {
			rowErrs = append(rowErrs, rerr)
			continue
		}
		records = append(records, rec)
	}

	slog.Info("dataset loaded", "records", len(records), "columns", len(header), "malformed_rows", len(rowErrs))
	return records, rowErrs, nil
}

// ReadPoliciesFile is the file-path convenience wrapper around ReadPolicies.
func ReadPoliciesFile(path string) ([]models.PolicyRecord, []*models.RecordError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ReadPolicies(f)
}

func parseRow(fields []string, idx map[string]int, row int) (models.PolicyRecord, *models.RecordError) {
	id := uuid.New()
	rp := rowParser{fields: fields, idx: idx, id: id, row: row}

	rec := models.PolicyRecord{
		ID:                id,
		Age:               rp.intField(colAge),
		Gender:            rp.stringField(colGender),
		MaritalStatus:     rp.stringField(colMaritalStatus),
		Dependents:        rp.intField(colDependents),
		Occupation:        rp.stringField(colOccupation),
		EducationLevel:    rp.stringField(colEducationLevel),
		AnnualIncome:      rp.optionalFloatField(colAnnualIncome),
		CreditScore:       rp.optionalFloatField(colCreditScore),
		HealthScore:       rp.optionalFloatField(colHealthScore),
		SmokingStatus:     rp.stringField(colSmokingStatus),
		ExerciseFrequency: rp.stringField(colExerciseFrequency),
		PolicyType:        rp.stringField(colPolicyType),
		PremiumAmount:     rp.floatField(colPremiumAmount),
		PreviousClaims:    rp.intField(colPreviousClaims),
		InsuranceDuration: rp.floatField(colInsuranceDuration),
		Location:          rp.stringField(colLocation),
		PropertyType:      rp.stringField(colPropertyType),
		PolicyStartDate:   rp.dateField(colPolicyStartDate),
		CustomerFeedback:  rp.optionalStringField(colCustomerFeedback),
	}
	return rec, rp.err
}

// rowParser accumulates the first parse error of a row so the field helpers
// can be chained without per-field error plumbing.
type rowParser struct {
	fields []string
	idx    map[string]int
	id     uuid.UUID
	row    int
	err    *models.RecordError
}

func (p *rowParser) raw(col string) (string, bool) {
	i, ok := p.idx[col]
	if !ok || i >= len(p.fields) {
		return "", false
	}
	return strings.TrimSpace(p.fields[i]), true
}

func (p *rowParser) fail(col, reason string) {
	if p.err == nil {
		p.err = models.NewInvalidValue(p.id, p.row, col, reason)
	}
}

func (p *rowParser) stringField(col string) string {
	v, _ := p.raw(col)
	return v
}

func (p *rowParser) optionalStringField(col string) *string {
	v, ok := p.raw(col)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func (p *rowParser) intField(col string) int {
	v, ok := p.raw(col)
	if !ok || v == "" {
		return 0
	}
	// Some exports write integral counts as floats ("2.0").
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, fmt.Sprintf("unparseable integer %q", v))
		return 0
	}
	return int(f)
}

func (p *rowParser) floatField(col string) float64 {
	v, ok := p.raw(col)
	if !ok || v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, fmt.Sprintf("unparseable number %q", v))
		return 0
	}
	return f
}

func (p *rowParser) optionalFloatField(col string) *float64 {
	v, ok := p.raw(col)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, fmt.Sprintf("unparseable number %q", v))
		return nil
	}
	return &f
}

func (p *rowParser) dateField(col string) time.Time {
	v, ok := p.raw(col)
	if !ok || v == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	p.fail(col, fmt.Sprintf("unparseable date %q", v))
	return time.Time{}
}
