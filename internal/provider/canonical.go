// Package provider defines the shapes upstream sources normalize into. These
// structs are the contract between source handlers and the seed runner:
// handlers output them, the seed runner filters and converts them into store
// rows.
package provider

// Team is a franchise as reported by the upstream API.
type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	ShortCode  string `json:"short_code,omitempty"`
	City       string `json:"city,omitempty"`
	Conference string `json:"conference,omitempty"`
	Division   string `json:"division,omitempty"`
}

// Game is one game as reported upstream. Season uses the upstream start-year
// convention (2023 for 2023-24); the seed runner converts it. Games that are
// not final or are postseason are still reported here.
type Game struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"` // "YYYY-MM-DD"
	Season        int    `json:"season"`
	Status        string `json:"status"`
	Postseason    bool   `json:"postseason"`
	HomeTeamID    int    `json:"home_team_id"`
	VisitorTeamID int    `json:"visitor_team_id"`
	HomeScore     int    `json:"home_score"`
	VisitorScore  int    `json:"visitor_score"`
}

// Leader is one row of a season stat leaderboard.
type Leader struct {
	PlayerID    int     `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	TeamID      *int    `json:"team_id,omitempty"`
	Season      int     `json:"season"` // start-year convention
	Rank        int     `json:"rank"`
	GamesPlayed int     `json:"games_played"`
	Value       float64 `json:"value"`
}

// TeamSeasonRow is one row of the team stats CSV export. Stats holds every
// numeric column under its normalized header.
type TeamSeasonRow struct {
	Team   string             `json:"team"`
	Season int                `json:"season"` // end-year convention
	Stats  map[string]float64 `json:"stats"`
}
