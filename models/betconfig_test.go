package models

import (
	"encoding/json"
	"testing"
)

func validComparison(spread *SpreadConfig) BetConfig {
	return BetConfig{
		Type: BetTypeComparison,
		Comparison: &ComparisonConfig{
			Participant1: Participant{SubjectType: SubjectTeam, SubjectID: "1", SubjectName: "Lakers", Metric: MetricPoints, TimePeriod: PeriodFullGame},
			Participant2: Participant{SubjectType: SubjectTeam, SubjectID: "2", SubjectName: "Celtics", Metric: MetricPoints, TimePeriod: PeriodFullGame},
			Operator:     OperatorGreaterThan,
			Spread:       spread,
		},
	}
}

func TestBetConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  BetConfig
		wantErr bool
	}{
		{
			name:   "moneyline comparison",
			config: validComparison(nil),
		},
		{
			name:   "half point spread",
			config: validComparison(&SpreadConfig{Direction: "-", Value: 6.5}),
		},
		{
			name:    "whole number spread rejected",
			config:  validComparison(&SpreadConfig{Direction: "-", Value: 7}),
			wantErr: true,
		},
		{
			name:    "quarter point spread rejected",
			config:  validComparison(&SpreadConfig{Direction: "+", Value: 3.25}),
			wantErr: true,
		},
		{
			name: "threshold over",
			config: BetConfig{
				Type: BetTypeThreshold,
				Threshold: &ThresholdConfig{
					Participant: Participant{SubjectType: SubjectPlayer, SubjectID: "p1", Metric: MetricPoints, TimePeriod: PeriodFullGame},
					Operator:    OperatorOver,
					Threshold:   28.5,
				},
			},
		},
		{
			name: "threshold with bad operator",
			config: BetConfig{
				Type: BetTypeThreshold,
				Threshold: &ThresholdConfig{
					Participant: Participant{SubjectType: SubjectPlayer, SubjectID: "p1", Metric: MetricPoints, TimePeriod: PeriodFullGame},
					Operator:    "AT_LEAST",
					Threshold:   28.5,
				},
			},
			wantErr: true,
		},
		{
			name: "event bet",
			config: BetConfig{
				Type: BetTypeEvent,
				Event: &EventConfig{
					Participant: Participant{SubjectType: SubjectPlayer, SubjectID: "p1", Metric: MetricPoints, TimePeriod: PeriodFullGame},
					EventType:   EventTripleDouble,
					TimePeriod:  PeriodFullGame,
				},
			},
		},
		{
			name: "event with bad period",
			config: BetConfig{
				Type: BetTypeEvent,
				Event: &EventConfig{
					Participant: Participant{SubjectType: SubjectPlayer, SubjectID: "p1", Metric: MetricPoints, TimePeriod: PeriodFullGame},
					EventType:   EventDoubleDouble,
					TimePeriod:  "Q5",
				},
			},
			wantErr: true,
		},
		{
			name:    "type without payload",
			config:  BetConfig{Type: BetTypeThreshold},
			wantErr: true,
		},
		{
			name:    "unknown type",
			config:  BetConfig{Type: "PROP"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBetConfigUnmarshalRejectsUnknownType(t *testing.T) {
	var cfg BetConfig
	err := json.Unmarshal([]byte(`{"type":"TEASER"}`), &cfg)
	if err == nil {
		t.Fatal("expected unmarshal error for unknown type")
	}
}

func TestBetConfigUnmarshalRequiresMatchingPayload(t *testing.T) {
	var cfg BetConfig
	err := json.Unmarshal([]byte(`{"type":"COMPARISON","threshold":{"operator":"OVER"}}`), &cfg)
	if err == nil {
		t.Fatal("expected unmarshal error when payload does not match type")
	}
}

func TestBetConfigSides(t *testing.T) {
	tests := []struct {
		name          string
		config        BetConfig
		wantPrimary   string
		wantSecondary string
	}{
		{"comparison", validComparison(nil), SideParticipant1, SideParticipant2},
		{
			"threshold over",
			BetConfig{Type: BetTypeThreshold, Threshold: &ThresholdConfig{Operator: OperatorOver}},
			SideOver, SideUnder,
		},
		{
			"threshold under leads with under",
			BetConfig{Type: BetTypeThreshold, Threshold: &ThresholdConfig{Operator: OperatorUnder}},
			SideUnder, SideOver,
		},
		{"event", BetConfig{Type: BetTypeEvent, Event: &EventConfig{}}, SideYes, SideNo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary, err := tt.config.Sides()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if primary != tt.wantPrimary || secondary != tt.wantSecondary {
				t.Errorf("Sides() = (%q, %q), want (%q, %q)", primary, secondary, tt.wantPrimary, tt.wantSecondary)
			}
		})
	}
}

func TestSpreadHalfInteger(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{0.5, true},
		{6.5, true},
		{13.5, true},
		{7, false},
		{3.25, false},
		{10.75, false},
	}
	for _, tt := range tests {
		s := SpreadConfig{Direction: "-", Value: tt.value}
		if got := s.HalfInteger(); got != tt.want {
			t.Errorf("HalfInteger(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
