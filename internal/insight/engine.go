package insight

import (
	"fmt"

	"MarketPulse/internal/model"
)

// Leaderboard role names the rule engine reads. A missing or empty role
// silently skips the rules that need it.
const (
	RoleTopGainers  = "top_gainers"
	RoleBottom      = "bottom_performers"
	RoleCommodities = "commodities"
	RoleLargeCaps   = "large_caps"
	RoleMidCaps     = "mid_caps"
	RoleEquities    = "equities" // stats role for the combined equity pool
)

// Thresholds holds the named numeric thresholds each rule compares
// against. All values are overridable via configuration; rule logic never
// hard-codes a number inline.
type Thresholds struct {
	MomentumPct        float64 // top 1-day gainer above this fires the momentum rule
	SelloffPct         float64 // worst 1-day performer below the negative of this fires the selloff rule
	BreadthAdvancePct  float64 // equity breadth at or above this fires broad advance
	BreadthDeclinePct  float64 // equity breadth at or below this fires broad decline
	CommodityWeeklyPct float64 // top commodity weekly change above this fires commodity momentum
	QuietPct           float64 // all 1-day changes within +/- this fires the quiet-session rule
}

// DefaultThresholds returns the standard rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MomentumPct:        3.0,
		SelloffPct:         3.0,
		BreadthAdvancePct:  70.0,
		BreadthDeclinePct:  30.0,
		CommodityWeeklyPct: 2.0,
		QuietPct:           0.5,
	}
}

// Inputs carries the already-ranked leaderboards and aggregate stats the
// rules read, keyed by role name.
type Inputs struct {
	Leaderboards map[string]model.Leaderboard
	Stats        map[string]model.MarketStats
}

// Disclaimer is the advisory notice appended to every run's insights.
const Disclaimer = "This report is generated automatically for informational purposes only and does not constitute investment advice."

type rule func(in Inputs, th Thresholds) (model.Insight, bool)

// Evaluate runs every rule in fixed priority order over the ranked inputs
// and returns the insights that fired, with the unconditional disclaimer
// always last. Evaluation is stateless and single-pass: no rule sees
// another rule's outcome, every rule runs every time (no early exit), and
// identical inputs always produce the identical ordered sequence.
func Evaluate(in Inputs, th Thresholds) []model.Insight {
	rules := []rule{
		momentumRule,
		selloffRule,
		breadthAdvanceRule,
		breadthDeclineRule,
		commodityMomentumRule,
		midCapLeadershipRule,
		quietSessionRule,
	}
	insights := make([]model.Insight, 0, len(rules)+1)
	for _, r := range rules {
		if ins, ok := r(in, th); ok {
			insights = append(insights, ins)
		}
	}
	insights = append(insights, model.Insight{Severity: model.SeverityInfo, Text: Disclaimer})
	return insights
}

// FormatSignedPct renders a percentage with an explicit sign and fixed
// 2-decimal precision: "+" prefix for positive, plain "-" for negative,
// literal "0.00%" for zero.
func FormatSignedPct(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	if pct < 0 {
		return fmt.Sprintf("%.2f%%", pct)
	}
	return "0.00%"
}
