package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-analytics/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

const testHeader = "Age,Gender,Marital Status,Number of Dependents,Occupation,Education Level," +
	"Annual Income,Credit Score,Health Score,Smoking Status,Exercise Frequency,Policy Type," +
	"Premium Amount,Previous Claims,Insurance Duration,Location,Property Type,Policy Start Date,Customer Feedback"

func datasetOf(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// ============================================================================
// TEST SUITE 1: PARSING
// ============================================================================

func TestReadPolicies_FullRow(t *testing.T) {
	data := datasetOf(
		`42,Female,Married,2,Engineer,Master's,75000,720,65,No,Weekly,Auto,1500.50,1,5,Urban,House,2023-04-15,Good`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, 42, r.Age)
	assert.Equal(t, "Female", r.Gender)
	assert.Equal(t, 2, r.Dependents)
	require.NotNil(t, r.AnnualIncome)
	assert.Equal(t, 75000.0, *r.AnnualIncome)
	require.NotNil(t, r.CreditScore)
	assert.Equal(t, 720.0, *r.CreditScore)
	assert.Equal(t, "No", r.SmokingStatus)
	assert.Equal(t, 1500.50, r.PremiumAmount)
	assert.Equal(t, 1, r.PreviousClaims)
	assert.Equal(t, 5.0, r.InsuranceDuration)
	assert.Equal(t, "2023-04-15", r.PolicyStartDate.Format("2006-01-02"))
	require.NotNil(t, r.CustomerFeedback)
	assert.Equal(t, "Good", *r.CustomerFeedback)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", r.ID.String(), "each row gets a fresh id")
}

func TestReadPolicies_OptionalFieldsEmpty(t *testing.T) {
	data := datasetOf(
		`42,Male,,0,,,,,     ,No,Daily,Home,900,0,3,Rural,,2022-01-01,`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 1)
	r := records[0]
	assert.Nil(t, r.AnnualIncome, "empty income stays nil, never zero")
	assert.Nil(t, r.CreditScore)
	assert.Nil(t, r.HealthScore)
	assert.Nil(t, r.CustomerFeedback)
}

func TestReadPolicies_FloatFormattedCounts(t *testing.T) {
	// Spreadsheet exports frequently write counts as "2.0".
	data := datasetOf(
		`30.0,Male,Single,1.0,Teacher,Bachelor's,40000,680,70,No,Daily,Life,800,2.0,4,Suburban,Apartment,2023-01-01,Average`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 1)
	assert.Equal(t, 30, records[0].Age)
	assert.Equal(t, 2, records[0].PreviousClaims)
}

// ============================================================================
// TEST SUITE 2: ERROR HANDLING
// ============================================================================

func TestReadPolicies_MissingRequiredColumnFailsRead(t *testing.T) {
	data := "Age,Gender\n42,Male\n"

	_, _, err := ReadPolicies(strings.NewReader(data))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required column")
}

func TestReadPolicies_MalformedRowReportedNotDropped(t *testing.T) {
	data := datasetOf(
		`42,Male,Single,0,Clerk,Diploma,30000,700,60,No,Daily,Auto,1000,0,5,Urban,House,2023-01-01,Good`,
		`not-a-number,Male,Single,0,Clerk,Diploma,30000,700,60,No,Daily,Auto,1000,0,5,Urban,House,2023-01-01,Good`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, models.ErrKindInvalidValue, rowErrs[0].Kind)
	assert.Equal(t, "Age", rowErrs[0].Field)
	assert.Equal(t, 2, rowErrs[0].Row)
}

func TestReadPolicies_BadDateReported(t *testing.T) {
	data := datasetOf(
		`42,Male,Single,0,Clerk,Diploma,30000,700,60,No,Daily,Auto,1000,0,5,Urban,House,15/04/2023,Good`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "Policy Start Date", rowErrs[0].Field)
}

func TestReadPolicies_AcceptsTimestampedDates(t *testing.T) {
	data := datasetOf(
		`42,Male,Single,0,Clerk,Diploma,30000,700,60,No,Daily,Auto,1000,0,5,Urban,House,2023-04-15 10:30:00,Good`,
	)

	records, rowErrs, err := ReadPolicies(strings.NewReader(data))

	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 1)
	assert.Equal(t, "2023-04-15", records[0].PolicyStartDate.Format("2006-01-02"))
}

func TestReadPolicies_HeaderOnly(t *testing.T) {
	records, rowErrs, err := ReadPolicies(strings.NewReader(testHeader + "\n"))

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, rowErrs)
}
