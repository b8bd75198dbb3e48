package betService

import (
	"fmt"

	"streakOddsEngine/models"

	"github.com/shopspring/decimal"
)

// StatsLookup serves numeric stat values from a game snapshot. The second
// return is false when the value is not available, which is expected for
// players who did not play and for partial live box scores.
type StatsLookup interface {
	Value(subjectID string, metric string, timePeriod string) (float64, bool)
}

// Resolution is the evaluator's verdict. Outcome is relative to the bet's
// primary side (participant 1, the configured threshold operator, or the
// event occurring). WinningSide names the side selections are graded against.
// Snapshot always carries every value that was looked up, for audit.
type Resolution struct {
	Resolved    bool
	Reason      string
	Outcome     string
	WinningSide string
	Snapshot    map[string]float64
}

// eventCategories are the stat lines counted toward a double- or
// triple-double.
var eventCategories = []string{
	models.MetricPoints,
	models.MetricRebounds,
	models.MetricAssists,
	models.MetricSteals,
	models.MetricBlocks,
}

func snapshotKey(p models.Participant, metric string, period string) string {
	return fmt.Sprintf("%s.%s.%s", p.SubjectID, metric, period)
}

// Evaluate maps a bet config and a stats snapshot to an outcome. It is pure:
// no clock, no storage, no network. An unknown bet type or operator is a
// configuration fault and comes back as an error, never a silent skip.
func Evaluate(cfg models.BetConfig, stats StatsLookup) (Resolution, error) {
	switch cfg.Type {
	case models.BetTypeComparison:
		return evaluateComparison(cfg.Comparison, stats)
	case models.BetTypeThreshold:
		return evaluateThreshold(cfg.Threshold, stats)
	case models.BetTypeEvent:
		return evaluateEvent(cfg.Event, stats)
	default:
		return Resolution{}, fmt.Errorf("unknown bet type %q", cfg.Type)
	}
}

func evaluateComparison(cfg *models.ComparisonConfig, stats StatsLookup) (Resolution, error) {
	if cfg == nil {
		return Resolution{}, fmt.Errorf("comparison config missing payload")
	}
	if cfg.Operator != models.OperatorGreaterThan {
		return Resolution{}, fmt.Errorf("unknown comparison operator %q", cfg.Operator)
	}

	snapshot := make(map[string]float64)

	v1, ok := stats.Value(cfg.Participant1.SubjectID, cfg.Participant1.Metric, cfg.Participant1.TimePeriod)
	if !ok {
		return incomplete(cfg.Participant1, cfg.Participant1.Metric, cfg.Participant1.TimePeriod, snapshot), nil
	}
	snapshot[snapshotKey(cfg.Participant1, cfg.Participant1.Metric, cfg.Participant1.TimePeriod)] = v1

	v2, ok := stats.Value(cfg.Participant2.SubjectID, cfg.Participant2.Metric, cfg.Participant2.TimePeriod)
	if !ok {
		return incomplete(cfg.Participant2, cfg.Participant2.Metric, cfg.Participant2.TimePeriod, snapshot), nil
	}
	snapshot[snapshotKey(cfg.Participant2, cfg.Participant2.Metric, cfg.Participant2.TimePeriod)] = v2

	adjusted := decimal.NewFromFloat(v1)
	if cfg.Spread != nil {
		spread := decimal.NewFromFloat(cfg.Spread.Value)
		if cfg.Spread.Direction == "-" {
			spread = spread.Neg()
		}
		adjusted = adjusted.Add(spread)
	}
	other := decimal.NewFromFloat(v2)

	switch adjusted.Cmp(other) {
	case 1:
		return Resolution{Resolved: true, Outcome: models.OutcomeWin, WinningSide: models.SideParticipant1, Snapshot: snapshot}, nil
	case -1:
		return Resolution{Resolved: true, Outcome: models.OutcomeLoss, WinningSide: models.SideParticipant2, Snapshot: snapshot}, nil
	default:
		// Only reachable without a spread: half-point spreads cannot tie.
		return Resolution{Resolved: true, Outcome: models.OutcomePush, Snapshot: snapshot}, nil
	}
}

func evaluateThreshold(cfg *models.ThresholdConfig, stats StatsLookup) (Resolution, error) {
	if cfg == nil {
		return Resolution{}, fmt.Errorf("threshold config missing payload")
	}
	if cfg.Operator != models.OperatorOver && cfg.Operator != models.OperatorUnder {
		return Resolution{}, fmt.Errorf("unknown threshold operator %q", cfg.Operator)
	}

	snapshot := make(map[string]float64)

	v, ok := stats.Value(cfg.Participant.SubjectID, cfg.Participant.Metric, cfg.Participant.TimePeriod)
	if !ok {
		return incomplete(cfg.Participant, cfg.Participant.Metric, cfg.Participant.TimePeriod, snapshot), nil
	}
	snapshot[snapshotKey(cfg.Participant, cfg.Participant.Metric, cfg.Participant.TimePeriod)] = v

	cmp := decimal.NewFromFloat(v).Cmp(decimal.NewFromFloat(cfg.Threshold))
	if cmp == 0 {
		return Resolution{Resolved: true, Outcome: models.OutcomePush, Snapshot: snapshot}, nil
	}

	overWon := cmp > 0
	operatorWon := overWon == (cfg.Operator == models.OperatorOver)

	winningSide := models.SideUnder
	if overWon {
		winningSide = models.SideOver
	}

	outcome := models.OutcomeLoss
	if operatorWon {
		outcome = models.OutcomeWin
	}
	return Resolution{Resolved: true, Outcome: outcome, WinningSide: winningSide, Snapshot: snapshot}, nil
}

func evaluateEvent(cfg *models.EventConfig, stats StatsLookup) (Resolution, error) {
	if cfg == nil {
		return Resolution{}, fmt.Errorf("event config missing payload")
	}

	var required int
	switch cfg.EventType {
	case models.EventDoubleDouble:
		required = 2
	case models.EventTripleDouble:
		required = 3
	default:
		return Resolution{}, fmt.Errorf("unknown event type %q", cfg.EventType)
	}

	snapshot := make(map[string]float64)
	count := 0
	for _, metric := range eventCategories {
		v, ok := stats.Value(cfg.Participant.SubjectID, metric, cfg.TimePeriod)
		if !ok {
			return incomplete(cfg.Participant, metric, cfg.TimePeriod, snapshot), nil
		}
		snapshot[snapshotKey(cfg.Participant, metric, cfg.TimePeriod)] = v
		if v >= 10 {
			count++
		}
	}

	// Event bets have no push state.
	if count >= required {
		return Resolution{Resolved: true, Outcome: models.OutcomeWin, WinningSide: models.SideYes, Snapshot: snapshot}, nil
	}
	return Resolution{Resolved: true, Outcome: models.OutcomeLoss, WinningSide: models.SideNo, Snapshot: snapshot}, nil
}

func incomplete(p models.Participant, metric string, period string, snapshot map[string]float64) Resolution {
	name := p.SubjectName
	if name == "" {
		name = p.SubjectID
	}
	return Resolution{
		Resolved: false,
		Reason:   fmt.Sprintf("DATA_INCOMPLETE: %s %s (%s) unavailable", name, metric, period),
		Snapshot: snapshot,
	}
}
