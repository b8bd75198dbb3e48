package extService

import (
	"encoding/json"
	"fmt"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/models/external"
	"streakOddsEngine/services/common"

	"gorm.io/gorm"
)

// espn date strings come in a couple of shapes depending on endpoint
var espnDateLayouts = []string{
	"2006-01-02T15:04Z",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
}

func parseEspnDate(value string) (time.Time, error) {
	for _, layout := range espnDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized espn date %q", value)
}

// SyncGames upserts today's scoreboard into the games table. External team
// identifiers are normalized onto the Game row here, at ingestion, so
// resolution and bet creation never re-parse provider payloads for them.
func SyncGames(db *gorm.DB) error {
	resp, err := common.ESPNWrapper(scoreboardUrl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var scoreboard external.ESPN_Scoreboard
	if err := json.NewDecoder(resp.Body).Decode(&scoreboard); err != nil {
		return fmt.Errorf("error parsing espn scoreboard: %v", err)
	}

	for _, event := range scoreboard.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		if err := upsertGame(db, event); err != nil {
			common.LogError(db, "syncGames", err)
		}
	}
	return nil
}

func upsertGame(db *gorm.DB, event external.ESPN_Event) error {
	comp := event.Competitions[0]

	start, err := parseEspnDate(event.Date)
	if err != nil {
		return err
	}

	game := models.Game{
		EspnID:    event.ID,
		StartTime: start,
		Status:    mapEspnStatus(comp.Status.Type.Name, comp.Status.Type.State),
	}
	for _, competitor := range comp.Competitors {
		if competitor.HomeAway == "home" {
			game.HomeTeamID = competitor.Team.ID
			game.HomeTeamName = competitor.Team.DisplayName
		} else {
			game.AwayTeamID = competitor.Team.ID
			game.AwayTeamName = competitor.Team.DisplayName
		}
	}

	var existing models.Game
	result := db.Where("espn_id = ?", event.ID).First(&existing)
	if result.Error != nil {
		return db.Create(&game).Error
	}

	return db.Model(&models.Game{}).Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":         game.Status,
			"start_time":     game.StartTime,
			"home_team_id":   game.HomeTeamID,
			"away_team_id":   game.AwayTeamID,
			"home_team_name": game.HomeTeamName,
			"away_team_name": game.AwayTeamName,
		}).Error
}
