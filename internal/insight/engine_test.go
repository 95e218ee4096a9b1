package insight

import (
	"reflect"
	"strings"
	"testing"

	"MarketPulse/internal/model"
)

func board(role, timeframe string, dir model.Direction, changes map[string]float64, order []string) model.Leaderboard {
	lb := model.Leaderboard{Role: role, Timeframe: timeframe, Direction: dir}
	for _, sym := range order {
		lb.Records = append(lb.Records, model.PerformanceRecord{
			Symbol:   sym,
			Name:     sym,
			Price:    100,
			HasPrice: true,
			Changes:  map[string]model.Change{timeframe: model.PctChange(changes[sym])},
		})
	}
	return lb
}

func gainersBoard(topChange float64) model.Leaderboard {
	return board(RoleTopGainers, model.TimeframeDay, model.Gainers,
		map[string]float64{"AAA": topChange, "BBB": topChange - 1}, []string{"AAA", "BBB"})
}

func losersBoard(worstChange float64) model.Leaderboard {
	return board(RoleBottom, model.TimeframeDay, model.Losers,
		map[string]float64{"ZZZ": worstChange}, []string{"ZZZ"})
}

func findBySeverity(insights []model.Insight, sev model.Severity) []model.Insight {
	var out []model.Insight
	for _, ins := range insights {
		if ins.Severity == sev {
			out = append(out, ins)
		}
	}
	return out
}

func TestEvaluate_MomentumRuleFires(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{RoleTopGainers: gainersBoard(4.2)},
	}
	insights := Evaluate(in, DefaultThresholds())

	var matched int
	for _, ins := range insights {
		if strings.Contains(ins.Text, "+4.20%") {
			matched++
			if ins.Severity != model.SeverityPositive {
				t.Errorf("momentum insight severity: got %s", ins.Severity)
			}
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly one insight containing %q, got %d", "+4.20%", matched)
	}
}

func TestEvaluate_MomentumBelowThresholdDoesNotFire(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{RoleTopGainers: gainersBoard(2.9)},
	}
	insights := Evaluate(in, DefaultThresholds())
	if got := findBySeverity(insights, model.SeverityPositive); len(got) != 0 {
		t.Fatalf("no positive insight expected, got %v", got)
	}
}

func TestEvaluate_SelloffRuleFires(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{RoleBottom: losersBoard(-5.25)},
	}
	insights := Evaluate(in, DefaultThresholds())
	warnings := findBySeverity(insights, model.SeverityWarning)
	if len(warnings) != 1 || !strings.Contains(warnings[0].Text, "-5.25%") {
		t.Fatalf("expected one selloff warning containing -5.25%%, got %v", warnings)
	}
}

func TestEvaluate_BreadthRules(t *testing.T) {
	stats := func(breadth float64) map[string]model.MarketStats {
		return map[string]model.MarketStats{RoleEquities: {
			Timeframe: model.TimeframeDay,
			Tracked:   10, Evaluated: 10, Gainers: int(breadth / 10), Losers: 10 - int(breadth/10),
			Breadth: model.PctChange(breadth),
		}}
	}

	advance := Evaluate(Inputs{Stats: stats(80.0)}, DefaultThresholds())
	if got := findBySeverity(advance, model.SeverityPositive); len(got) != 1 || !strings.Contains(got[0].Text, "Broad advance") {
		t.Fatalf("expected broad advance insight, got %v", got)
	}

	decline := Evaluate(Inputs{Stats: stats(20.0)}, DefaultThresholds())
	if got := findBySeverity(decline, model.SeverityWarning); len(got) != 1 || !strings.Contains(got[0].Text, "Broad decline") {
		t.Fatalf("expected broad decline insight, got %v", got)
	}

	middle := Evaluate(Inputs{Stats: stats(50.0)}, DefaultThresholds())
	if len(middle) != 1 {
		t.Fatalf("mid breadth should fire nothing but the disclaimer, got %v", middle)
	}
}

func TestEvaluate_MidCapRuleSkippedWhenAbsent(t *testing.T) {
	// Identical inputs except one also carries an empty mid-cap board:
	// the rule is skipped in both cases and no other rule's output moves.
	base := Inputs{
		Leaderboards: map[string]model.Leaderboard{
			RoleTopGainers: gainersBoard(4.2),
			RoleLargeCaps: board(RoleLargeCaps, model.TimeframeDay, model.Gainers,
				map[string]float64{"LC": 1.0}, []string{"LC"}),
		},
	}
	withEmptyMid := Inputs{
		Leaderboards: map[string]model.Leaderboard{
			RoleTopGainers: base.Leaderboards[RoleTopGainers],
			RoleLargeCaps:  base.Leaderboards[RoleLargeCaps],
			RoleMidCaps:    {Role: RoleMidCaps, Timeframe: model.TimeframeDay, Direction: model.Gainers},
		},
	}

	got1 := Evaluate(base, DefaultThresholds())
	got2 := Evaluate(withEmptyMid, DefaultThresholds())
	if !reflect.DeepEqual(got1, got2) {
		t.Fatalf("absent vs empty mid-cap board changed unrelated output:\n%v\n%v", got1, got2)
	}
	last := got1[len(got1)-1]
	if last.Text != Disclaimer {
		t.Fatalf("disclaimer must be last, got %q", last.Text)
	}
}

func TestEvaluate_MidCapLeadership(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{
			RoleLargeCaps: board(RoleLargeCaps, model.TimeframeDay, model.Gainers,
				map[string]float64{"LC": 1.0}, []string{"LC"}),
			RoleMidCaps: board(RoleMidCaps, model.TimeframeDay, model.Gainers,
				map[string]float64{"MC": 2.5}, []string{"MC"}),
		},
	}
	insights := Evaluate(in, DefaultThresholds())
	var found bool
	for _, ins := range insights {
		if strings.Contains(ins.Text, "Mid-cap leadership") {
			found = true
			if !strings.Contains(ins.Text, "+2.50%") || !strings.Contains(ins.Text, "+1.00%") {
				t.Errorf("leadership insight missing interpolated changes: %q", ins.Text)
			}
		}
	}
	if !found {
		t.Fatal("expected mid-cap leadership insight")
	}
}

func TestEvaluate_QuietSession(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{
			RoleTopGainers: gainersBoard(0.3),
			RoleBottom:     losersBoard(-0.2),
		},
	}
	insights := Evaluate(in, DefaultThresholds())
	var found bool
	for _, ins := range insights {
		if strings.Contains(ins.Text, "Quiet session") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected quiet session insight, got %v", insights)
	}
}

func TestEvaluate_DisclaimerAlwaysLastEvenOnEmptyInputs(t *testing.T) {
	insights := Evaluate(Inputs{}, DefaultThresholds())
	if len(insights) != 1 {
		t.Fatalf("empty inputs should yield only the disclaimer, got %v", insights)
	}
	if insights[0].Text != Disclaimer || insights[0].Severity != model.SeverityInfo {
		t.Fatalf("unexpected disclaimer insight: %+v", insights[0])
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := Inputs{
		Leaderboards: map[string]model.Leaderboard{
			RoleTopGainers:  gainersBoard(4.2),
			RoleBottom:      losersBoard(-5.0),
			RoleCommodities: board(RoleCommodities, model.TimeframeWeek, model.Gainers, map[string]float64{"GC": 3.1}, []string{"GC"}),
		},
		Stats: map[string]model.MarketStats{RoleEquities: {
			Timeframe: model.TimeframeDay, Tracked: 4, Evaluated: 4, Gainers: 4, Breadth: model.PctChange(100.0),
		}},
	}
	first := Evaluate(in, DefaultThresholds())
	second := Evaluate(in, DefaultThresholds())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Evaluate is not deterministic:\n%v\n%v", first, second)
	}
	if len(first) < 4 {
		t.Fatalf("expected several firing rules, got %v", first)
	}
}

func TestFormatSignedPct(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{4.2, "+4.20%"},
		{-3.456, "-3.46%"},
		{0, "0.00%"},
		{0.005, "+0.01%"},
		{-0.0, "0.00%"},
	}
	for _, tt := range tests {
		if got := FormatSignedPct(tt.pct); got != tt.want {
			t.Errorf("FormatSignedPct(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
