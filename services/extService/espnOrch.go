package extService

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"streakOddsEngine/models"
	"streakOddsEngine/models/external"
	"streakOddsEngine/services/betService"
	"streakOddsEngine/services/common"
)

const (
	scoreboardUrl = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard"
	summaryUrl    = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/summary?event=%s"
)

// EspnProvider implements the game stats provider against the public ESPN
// NBA API.
type EspnProvider struct{}

func NewEspnProvider() *EspnProvider {
	return &EspnProvider{}
}

func (p *EspnProvider) GetGameStatus(gameID string) (betService.GameStatus, error) {
	summary, err := fetchSummary(gameID)
	if err != nil {
		return betService.GameStatus{}, err
	}
	if len(summary.Header.Competitions) == 0 {
		return betService.GameStatus{}, fmt.Errorf("espn summary for game %s has no competitions", gameID)
	}
	comp := summary.Header.Competitions[0]

	start, err := parseEspnDate(comp.Date)
	if err != nil {
		return betService.GameStatus{}, err
	}

	return betService.GameStatus{
		Status:    mapEspnStatus(comp.Status.Type.Name, comp.Status.Type.State),
		StartTime: start,
	}, nil
}

func (p *EspnProvider) GetStatsSnapshot(gameID string) (betService.StatsLookup, error) {
	summary, err := fetchSummary(gameID)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(summary), nil
}

func fetchSummary(gameID string) (*external.ESPN_Summary, error) {
	resp, err := common.ESPNWrapper(fmt.Sprintf(summaryUrl, gameID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var summary external.ESPN_Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("error parsing espn summary: %v", err)
	}
	return &summary, nil
}

// statsSnapshot keys values by subject ID, then metric@period.
type statsSnapshot struct {
	values map[string]map[string]float64
}

func snapKey(metric string, period string) string {
	return metric + "@" + period
}

func (s *statsSnapshot) Value(subjectID string, metric string, timePeriod string) (float64, bool) {
	subject, ok := s.values[subjectID]
	if !ok {
		return 0, false
	}
	v, ok := subject[snapKey(metric, timePeriod)]
	return v, ok
}

func (s *statsSnapshot) put(subjectID string, metric string, period string, value float64) {
	if s.values[subjectID] == nil {
		s.values[subjectID] = make(map[string]float64)
	}
	s.values[subjectID][snapKey(metric, period)] = value
}

// buildSnapshot flattens an ESPN summary into lookup form. Team points come
// from the header linescores (per-quarter, halves summed, overtime), team
// totals and player lines from the boxscore. Whatever the payload is missing
// simply stays absent; the evaluator treats that as data-incomplete.
func buildSnapshot(summary *external.ESPN_Summary) *statsSnapshot {
	snapshot := &statsSnapshot{values: make(map[string]map[string]float64)}

	if len(summary.Header.Competitions) > 0 {
		for _, competitor := range summary.Header.Competitions[0].Competitors {
			if total, err := strconv.ParseFloat(competitor.Score, 64); err == nil {
				snapshot.put(competitor.ID, models.MetricPoints, models.PeriodFullGame, total)
			}

			quarters := make([]float64, 0, len(competitor.Linescores))
			for _, line := range competitor.Linescores {
				v, err := strconv.ParseFloat(line.DisplayValue, 64)
				if err != nil {
					break
				}
				quarters = append(quarters, v)
			}
			periods := []string{models.PeriodQ1, models.PeriodQ2, models.PeriodQ3, models.PeriodQ4}
			for i, period := range periods {
				if i < len(quarters) {
					snapshot.put(competitor.ID, models.MetricPoints, period, quarters[i])
				}
			}
			if len(quarters) >= 2 {
				snapshot.put(competitor.ID, models.MetricPoints, models.PeriodH1, quarters[0]+quarters[1])
			}
			if len(quarters) >= 4 {
				snapshot.put(competitor.ID, models.MetricPoints, models.PeriodH2, quarters[2]+quarters[3])
			}
			if len(quarters) > 4 {
				ot := 0.0
				for _, v := range quarters[4:] {
					ot += v
				}
				snapshot.put(competitor.ID, models.MetricPoints, models.PeriodOT, ot)
			}
		}
	}

	for _, team := range summary.Boxscore.Teams {
		for _, stat := range team.Statistics {
			metric, ok := teamStatMetric(stat.Name)
			if !ok {
				continue
			}
			if v, err := strconv.ParseFloat(stat.DisplayValue, 64); err == nil {
				snapshot.put(team.Team.ID, metric, models.PeriodFullGame, v)
			}
		}
	}

	for _, teamPlayers := range summary.Boxscore.Players {
		for _, group := range teamPlayers.Statistics {
			keys := group.Keys
			if len(keys) == 0 {
				keys = group.Names
			}
			for _, athlete := range group.Athletes {
				if athlete.DidNotPlay {
					continue
				}
				for i, key := range keys {
					if i >= len(athlete.Stats) {
						break
					}
					metric, ok := playerStatMetric(key)
					if !ok {
						continue
					}
					if v, err := strconv.ParseFloat(athlete.Stats[i], 64); err == nil {
						snapshot.put(athlete.Athlete.ID, metric, models.PeriodFullGame, v)
					}
				}
			}
		}
	}

	return snapshot
}

func teamStatMetric(name string) (string, bool) {
	switch name {
	case "totalRebounds", "rebounds":
		return models.MetricRebounds, true
	case "assists":
		return models.MetricAssists, true
	case "steals":
		return models.MetricSteals, true
	case "blocks":
		return models.MetricBlocks, true
	default:
		return "", false
	}
}

func playerStatMetric(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "points", "pts":
		return models.MetricPoints, true
	case "totalrebounds", "rebounds", "reb":
		return models.MetricRebounds, true
	case "assists", "ast":
		return models.MetricAssists, true
	case "steals", "stl":
		return models.MetricSteals, true
	case "blocks", "blk":
		return models.MetricBlocks, true
	default:
		return "", false
	}
}

func mapEspnStatus(name string, state string) string {
	switch name {
	case "STATUS_SCHEDULED":
		return models.GameStatusScheduled
	case "STATUS_FINAL":
		return models.GameStatusFinal
	case "STATUS_CANCELED":
		return models.GameStatusCancelled
	case "STATUS_POSTPONED":
		return models.GameStatusPostponed
	}
	switch state {
	case "pre":
		return models.GameStatusScheduled
	case "post":
		return models.GameStatusFinal
	default:
		return models.GameStatusInProgress
	}
}
