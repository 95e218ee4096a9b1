package insight

import (
	"fmt"

	"MarketPulse/internal/model"
)

// momentumRule fires when the overall top 1-day gainer clears the
// momentum threshold.
func momentumRule(in Inputs, th Thresholds) (model.Insight, bool) {
	lb, ok := in.Leaderboards[RoleTopGainers]
	if !ok {
		return model.Insight{}, false
	}
	top, ok := lb.Top()
	if !ok {
		return model.Insight{}, false
	}
	chg := top.ChangeFor(lb.Timeframe)
	if !chg.Valid || chg.Pct <= th.MomentumPct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityPositive,
		Text: fmt.Sprintf("Strong momentum: %s leads the session at %s, above the %s threshold.",
			top.Name, FormatSignedPct(chg.Pct), FormatSignedPct(th.MomentumPct)),
	}, true
}

// selloffRule fires when the worst 1-day performer falls below the
// negative selloff threshold.
func selloffRule(in Inputs, th Thresholds) (model.Insight, bool) {
	lb, ok := in.Leaderboards[RoleBottom]
	if !ok {
		return model.Insight{}, false
	}
	worst, ok := lb.Top()
	if !ok {
		return model.Insight{}, false
	}
	chg := worst.ChangeFor(lb.Timeframe)
	if !chg.Valid || chg.Pct >= -th.SelloffPct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityWarning,
		Text: fmt.Sprintf("Heavy selling: %s dropped %s on the session.",
			worst.Name, FormatSignedPct(chg.Pct)),
	}, true
}

// breadthAdvanceRule fires when equity breadth reaches the advance
// threshold.
func breadthAdvanceRule(in Inputs, th Thresholds) (model.Insight, bool) {
	st, ok := in.Stats[RoleEquities]
	if !ok || !st.Breadth.Valid {
		return model.Insight{}, false
	}
	if st.Breadth.Pct < th.BreadthAdvancePct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityPositive,
		Text: fmt.Sprintf("Broad advance: %d of %d evaluated equities closed higher (%.2f%% breadth).",
			st.Gainers, st.Evaluated, st.Breadth.Pct),
	}, true
}

// breadthDeclineRule fires when equity breadth sinks to the decline
// threshold.
func breadthDeclineRule(in Inputs, th Thresholds) (model.Insight, bool) {
	st, ok := in.Stats[RoleEquities]
	if !ok || !st.Breadth.Valid {
		return model.Insight{}, false
	}
	if st.Breadth.Pct > th.BreadthDeclinePct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityWarning,
		Text: fmt.Sprintf("Broad decline: only %d of %d evaluated equities closed higher (%.2f%% breadth).",
			st.Gainers, st.Evaluated, st.Breadth.Pct),
	}, true
}

// commodityMomentumRule fires when the top commodity's ranking-timeframe
// change clears the commodity threshold.
func commodityMomentumRule(in Inputs, th Thresholds) (model.Insight, bool) {
	lb, ok := in.Leaderboards[RoleCommodities]
	if !ok {
		return model.Insight{}, false
	}
	top, ok := lb.Top()
	if !ok {
		return model.Insight{}, false
	}
	chg := top.ChangeFor(lb.Timeframe)
	if !chg.Valid || chg.Pct <= th.CommodityWeeklyPct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityInfo,
		Text: fmt.Sprintf("%s tops commodities at %s over the %s window.",
			top.Name, FormatSignedPct(chg.Pct), lb.Timeframe),
	}, true
}

// midCapLeadershipRule fires when the best mid cap outpaces the best
// large cap on the day. Skipped when either tier is absent that run.
func midCapLeadershipRule(in Inputs, th Thresholds) (model.Insight, bool) {
	midBoard, ok := in.Leaderboards[RoleMidCaps]
	if !ok {
		return model.Insight{}, false
	}
	largeBoard, ok := in.Leaderboards[RoleLargeCaps]
	if !ok {
		return model.Insight{}, false
	}
	mid, ok := midBoard.Top()
	if !ok {
		return model.Insight{}, false
	}
	large, ok := largeBoard.Top()
	if !ok {
		return model.Insight{}, false
	}
	midChg := mid.ChangeFor(midBoard.Timeframe)
	largeChg := large.ChangeFor(largeBoard.Timeframe)
	if !midChg.Valid || !largeChg.Valid || midChg.Pct <= largeChg.Pct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityInfo,
		Text: fmt.Sprintf("Mid-cap leadership: %s (%s) outpaced the best large cap %s (%s).",
			mid.Name, FormatSignedPct(midChg.Pct), large.Name, FormatSignedPct(largeChg.Pct)),
	}, true
}

// quietSessionRule fires when both extremes of the day sit inside the
// quiet band, i.e. nothing moved meaningfully in either direction.
func quietSessionRule(in Inputs, th Thresholds) (model.Insight, bool) {
	gainBoard, ok := in.Leaderboards[RoleTopGainers]
	if !ok {
		return model.Insight{}, false
	}
	lossBoard, ok := in.Leaderboards[RoleBottom]
	if !ok {
		return model.Insight{}, false
	}
	best, ok := gainBoard.Top()
	if !ok {
		return model.Insight{}, false
	}
	worst, ok := lossBoard.Top()
	if !ok {
		return model.Insight{}, false
	}
	bestChg := best.ChangeFor(gainBoard.Timeframe)
	worstChg := worst.ChangeFor(lossBoard.Timeframe)
	if !bestChg.Valid || !worstChg.Valid {
		return model.Insight{}, false
	}
	if bestChg.Pct > th.QuietPct || worstChg.Pct < -th.QuietPct {
		return model.Insight{}, false
	}
	return model.Insight{
		Severity: model.SeverityInfo,
		Text: fmt.Sprintf("Quiet session: every tracked move stayed within ±%.2f%% (best %s, worst %s).",
			th.QuietPct, FormatSignedPct(bestChg.Pct), FormatSignedPct(worstChg.Pct)),
	}, true
}
