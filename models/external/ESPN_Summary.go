package external

// ESPN_Summary is the game summary payload. The boxscore carries team totals,
// per-period linescores, and per-player stat lines. Player lines are only
// present once the game is underway, and may be partial during live games.
type ESPN_Summary struct {
	Boxscore struct {
		Teams []struct {
			Team struct {
				ID           string `json:"id"`
				DisplayName  string `json:"displayName"`
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
			HomeAway   string `json:"homeAway"`
			Statistics []struct {
				Name         string `json:"name"`
				DisplayValue string `json:"displayValue"`
			} `json:"statistics"`
		} `json:"teams"`
		Players []struct {
			Team struct {
				ID string `json:"id"`
			} `json:"team"`
			Statistics []struct {
				Names    []string `json:"names"`
				Keys     []string `json:"keys"`
				Athletes []struct {
					Athlete struct {
						ID          string `json:"id"`
						DisplayName string `json:"displayName"`
					} `json:"athlete"`
					DidNotPlay bool     `json:"didNotPlay"`
					Stats      []string `json:"stats"`
				} `json:"athletes"`
			} `json:"statistics"`
		} `json:"players"`
	} `json:"boxscore"`
	Header struct {
		ID           string `json:"id"`
		Competitions []struct {
			ID          string `json:"id"`
			Date        string `json:"date"`
			Competitors []struct {
				ID         string `json:"id"`
				HomeAway   string `json:"homeAway"`
				Score      string `json:"score"`
				Linescores []struct {
					DisplayValue string `json:"displayValue"`
				} `json:"linescores"`
			} `json:"competitors"`
			Status struct {
				Type struct {
					Name      string `json:"name"`
					State     string `json:"state"`
					Completed bool   `json:"completed"`
				} `json:"type"`
			} `json:"status"`
		} `json:"competitions"`
	} `json:"header"`
}
