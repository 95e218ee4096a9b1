package model

// Severity tags an insight for presentation.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityPositive Severity = "POSITIVE"
	SeverityWarning  Severity = "WARNING"
)

// Insight is a rule-engine-derived, human-readable statement about
// market conditions.
type Insight struct {
	Severity Severity
	Text     string
}
