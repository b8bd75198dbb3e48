package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type BetType string

const (
	BetTypeComparison BetType = "COMPARISON"
	BetTypeThreshold  BetType = "THRESHOLD"
	BetTypeEvent      BetType = "EVENT"
)

type SubjectType string

const (
	SubjectTeam   SubjectType = "TEAM"
	SubjectPlayer SubjectType = "PLAYER"
)

const (
	PeriodFullGame = "FULL_GAME"
	PeriodQ1       = "Q1"
	PeriodQ2       = "Q2"
	PeriodQ3       = "Q3"
	PeriodQ4       = "Q4"
	PeriodH1       = "H1"
	PeriodH2       = "H2"
	PeriodOT       = "OT"
)

const (
	MetricPoints   = "points"
	MetricRebounds = "rebounds"
	MetricAssists  = "assists"
	MetricSteals   = "steals"
	MetricBlocks   = "blocks"
)

const (
	OperatorGreaterThan = "GREATER_THAN"
	OperatorOver        = "OVER"
	OperatorUnder       = "UNDER"
)

const (
	EventDoubleDouble = "DOUBLE_DOUBLE"
	EventTripleDouble = "TRIPLE_DOUBLE"
)

// Selection sides. Comparison bets are taken from participant 1 or 2,
// threshold bets from the over or under, event bets yes or no.
const (
	SideParticipant1 = "participant_1"
	SideParticipant2 = "participant_2"
	SideOver         = "over"
	SideUnder        = "under"
	SideYes          = "yes"
	SideNo           = "no"
)

type Participant struct {
	SubjectType SubjectType `json:"subject_type" validate:"required,oneof=TEAM PLAYER"`
	SubjectID   string      `json:"subject_id" validate:"required"`
	SubjectName string      `json:"subject_name"`
	Metric      string      `json:"metric" validate:"required"`
	TimePeriod  string      `json:"time_period" validate:"required,oneof=FULL_GAME Q1 Q2 Q3 Q4 H1 H2 OT"`
}

type SpreadConfig struct {
	Direction string  `json:"direction" validate:"required,oneof=+ -"`
	Value     float64 `json:"value" validate:"required,gt=0"`
}

// HalfInteger reports whether the spread value is of the form X.5. The UI only
// ever produces half-point spreads, which is what makes spread comparisons
// tie-proof.
func (s *SpreadConfig) HalfInteger() bool {
	doubled := s.Value * 2
	return doubled == math.Trunc(doubled) && math.Mod(doubled, 2) != 0
}

type ComparisonConfig struct {
	Participant1 Participant   `json:"participant_1" validate:"required"`
	Participant2 Participant   `json:"participant_2" validate:"required"`
	Operator     string        `json:"operator" validate:"required,oneof=GREATER_THAN"`
	Spread       *SpreadConfig `json:"spread,omitempty"`
}

type ThresholdConfig struct {
	Participant Participant `json:"participant" validate:"required"`
	Operator    string      `json:"operator" validate:"required,oneof=OVER UNDER"`
	Threshold   float64     `json:"threshold" validate:"required,gt=0"`
}

type EventConfig struct {
	Participant Participant `json:"participant" validate:"required"`
	EventType   string      `json:"event_type" validate:"required,oneof=DOUBLE_DOUBLE TRIPLE_DOUBLE"`
	TimePeriod  string      `json:"time_period" validate:"required,oneof=FULL_GAME Q1 Q2 Q3 Q4 H1 H2 OT"`
}

// BetConfig is the tagged union of the three bet variants. Exactly one of the
// variant pointers is non-nil, matching Type.
type BetConfig struct {
	Type       BetType           `json:"type"`
	Comparison *ComparisonConfig `json:"comparison,omitempty"`
	Threshold  *ThresholdConfig  `json:"threshold,omitempty"`
	Event      *EventConfig      `json:"event,omitempty"`
}

func (c *BetConfig) UnmarshalJSON(data []byte) error {
	type alias BetConfig
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = BetConfig(a)
	switch c.Type {
	case BetTypeComparison:
		if c.Comparison == nil {
			return fmt.Errorf("bet config: COMPARISON payload missing")
		}
	case BetTypeThreshold:
		if c.Threshold == nil {
			return fmt.Errorf("bet config: THRESHOLD payload missing")
		}
	case BetTypeEvent:
		if c.Event == nil {
			return fmt.Errorf("bet config: EVENT payload missing")
		}
	default:
		return fmt.Errorf("bet config: unknown bet type %q", c.Type)
	}
	return nil
}

// Validate rejects malformed configurations at bet-creation time so they can
// never reach resolution.
func (c *BetConfig) Validate() error {
	switch c.Type {
	case BetTypeComparison:
		if c.Comparison == nil {
			return fmt.Errorf("COMPARISON config missing payload")
		}
		if err := validate.Struct(c.Comparison); err != nil {
			return err
		}
		if c.Comparison.Spread != nil && !c.Comparison.Spread.HalfInteger() {
			return fmt.Errorf("spread value %v must be a half-integer", c.Comparison.Spread.Value)
		}
		return nil
	case BetTypeThreshold:
		if c.Threshold == nil {
			return fmt.Errorf("THRESHOLD config missing payload")
		}
		return validate.Struct(c.Threshold)
	case BetTypeEvent:
		if c.Event == nil {
			return fmt.Errorf("EVENT config missing payload")
		}
		return validate.Struct(c.Event)
	default:
		return fmt.Errorf("unknown bet type %q", c.Type)
	}
}

// Sides returns the two selectable sides for this config, primary side first.
func (c *BetConfig) Sides() (string, string, error) {
	switch c.Type {
	case BetTypeComparison:
		return SideParticipant1, SideParticipant2, nil
	case BetTypeThreshold:
		if c.Threshold != nil && c.Threshold.Operator == OperatorUnder {
			return SideUnder, SideOver, nil
		}
		return SideOver, SideUnder, nil
	case BetTypeEvent:
		return SideYes, SideNo, nil
	default:
		return "", "", fmt.Errorf("unknown bet type %q", c.Type)
	}
}

func (c BetConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *BetConfig) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("bet config: cannot scan %T", value)
	}
}
