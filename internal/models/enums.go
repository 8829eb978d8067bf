package models

type RiskCategory string

const (
	RiskLow      RiskCategory = "Low"
	RiskMedium   RiskCategory = "Medium"
	RiskHigh     RiskCategory = "High"
	RiskVeryHigh RiskCategory = "Very High"
)

// RiskCategoryOrder lists the categories from least to most severe. Every
// artifact that sorts by category uses this order, never map iteration.
var RiskCategoryOrder = []RiskCategory{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}

type AgeGroup string

const (
	Age18To25 AgeGroup = "18-25"
	Age26To35 AgeGroup = "26-35"
	Age36To45 AgeGroup = "36-45"
	Age46To55 AgeGroup = "46-55"
	Age56To65 AgeGroup = "56-65"
	AgeOver65 AgeGroup = "65+"
)

var AgeGroupOrder = []AgeGroup{Age18To25, Age26To35, Age36To45, Age46To55, Age56To65, AgeOver65}

type IncomeBracket string

const (
	IncomeLow      IncomeBracket = "Low"
	IncomeLowerMid IncomeBracket = "Lower-Mid"
	IncomeMid      IncomeBracket = "Mid"
	IncomeUpperMid IncomeBracket = "Upper-Mid"
	IncomeHigh     IncomeBracket = "High"
	IncomeUnknown  IncomeBracket = "Unknown"
)

var IncomeBracketOrder = []IncomeBracket{IncomeLow, IncomeLowerMid, IncomeMid, IncomeUpperMid, IncomeHigh, IncomeUnknown}

type CapitalStatus string

const (
	CapitalAdequate   CapitalStatus = "Adequate"
	CapitalInadequate CapitalStatus = "Inadequate"
)

type StrictnessMode string

const (
	StrictnessLenient StrictnessMode = "lenient"
	StrictnessStrict  StrictnessMode = "strict"
)

type RecommendationPriority string

const (
	PriorityLow      RecommendationPriority = "Low"
	PriorityMedium   RecommendationPriority = "Medium"
	PriorityHigh     RecommendationPriority = "High"
	PriorityCritical RecommendationPriority = "Critical"
)

// Categorical values of the source dataset that the scorer and KPI
// calculations compare against.
const (
	SmokingYes        = "Yes"
	ExerciseRarely    = "Rarely"
	FeedbackAverage   = "Average"
	FeedbackGood      = "Good"
	FeedbackExcellent = "Excellent"
)
