package external

type ESPN_Event struct {
	ID           string `json:"id"`
	UID          string `json:"uid"`
	Date         string `json:"date"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName"`
	Competitions []struct {
		ID          string `json:"id"`
		Competitors []struct {
			ID       string `json:"id"`
			HomeAway string `json:"homeAway"`
			Score    string `json:"score"`
			Team     struct {
				ID           string `json:"id"`
				DisplayName  string `json:"displayName"`
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
		} `json:"competitors"`
		Status struct {
			Clock  float64 `json:"clock"`
			Period int     `json:"period"`
			Type   struct {
				ID        string `json:"id"`
				Name      string `json:"name"`
				State     string `json:"state"`
				Completed bool   `json:"completed"`
			} `json:"type"`
		} `json:"status"`
	} `json:"competitions"`
	Status struct {
		Type struct {
			Name      string `json:"name"`
			State     string `json:"state"`
			Completed bool   `json:"completed"`
		} `json:"type"`
	} `json:"status"`
}
