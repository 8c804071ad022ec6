package bdl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/albapepper/nba-stats-bot/internal/provider"
)

// NBAHandler fetches and normalizes NBA data from BallDontLie.
type NBAHandler struct {
	client *Client
	logger *slog.Logger
}

// NewNBAHandler creates an NBA handler over client.
func NewNBAHandler(client *Client, logger *slog.Logger) *NBAHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NBAHandler{client: client, logger: logger}
}

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

type bdlTeamRaw struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

// GetTeams fetches all NBA teams. Historical franchises without a conference
// are skipped.
func (h *NBAHandler) GetTeams(ctx context.Context) ([]provider.Team, error) {
	var teams []provider.Team
	err := each(ctx, h.client, "/teams", nil, func(page []bdlTeamRaw) error {
		for _, t := range page {
			if strings.TrimSpace(t.Conference) == "" {
				continue
			}
			teams = append(teams, normalizeNBATeam(t))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch NBA teams: %w", err)
	}
	return teams, nil
}

func normalizeNBATeam(raw bdlTeamRaw) provider.Team {
	full := raw.FullName
	if full == "" {
		full = strings.TrimSpace(raw.City + " " + raw.Name)
	}
	return provider.Team{
		ID:         raw.ID,
		Name:       raw.Name,
		FullName:   full,
		ShortCode:  raw.Abbreviation,
		City:       raw.City,
		Conference: raw.Conference,
		Division:   raw.Division,
	}
}

// --------------------------------------------------------------------------
// Games (cursor-paginated)
// --------------------------------------------------------------------------

type bdlGameRaw struct {
	ID               int64      `json:"id"`
	Date             string     `json:"date"`
	Season           int        `json:"season"`
	Status           string     `json:"status"`
	Postseason       bool       `json:"postseason"`
	HomeTeamScore    int        `json:"home_team_score"`
	VisitorTeamScore int        `json:"visitor_team_score"`
	HomeTeam         bdlTeamRaw `json:"home_team"`
	VisitorTeam      bdlTeamRaw `json:"visitor_team"`
}

// GetGames iterates every game of the season starting in startYear, calling
// fn once per page.
func (h *NBAHandler) GetGames(ctx context.Context, startYear int, fn func([]provider.Game) error) error {
	params := url.Values{"seasons[]": {strconv.Itoa(startYear)}}

	pages := 0
	err := each(ctx, h.client, "/games", params, func(page []bdlGameRaw) error {
		pages++
		games := make([]provider.Game, len(page))
		for i, g := range page {
			games[i] = normalizeNBAGame(g)
		}
		return fn(games)
	})
	if err != nil {
		return fmt.Errorf("fetch NBA games: %w", err)
	}
	h.logger.Debug("Fetched NBA games", "season", startYear, "pages", pages)
	return nil
}

func normalizeNBAGame(raw bdlGameRaw) provider.Game {
	date := raw.Date
	if len(date) > 10 {
		date = date[:10] // "2024-01-05T00:00:00.000Z"
	}
	return provider.Game{
		ID:            raw.ID,
		Date:          date,
		Season:        raw.Season,
		Status:        raw.Status,
		Postseason:    raw.Postseason,
		HomeTeamID:    raw.HomeTeam.ID,
		VisitorTeamID: raw.VisitorTeam.ID,
		HomeScore:     raw.HomeTeamScore,
		VisitorScore:  raw.VisitorTeamScore,
	}
}

// --------------------------------------------------------------------------
// Leaders
// --------------------------------------------------------------------------

type bdlLeaderRaw struct {
	Player struct {
		ID        int    `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		TeamID    *int   `json:"team_id"`
	} `json:"player"`
	Value       any `json:"value"`
	Rank        int `json:"rank"`
	Season      int `json:"season"`
	GamesPlayed int `json:"games_played"`
}

// GetLeaders fetches the leaderboard for statType ("pts", "reb", ...) in the
// season starting in startYear.
func (h *NBAHandler) GetLeaders(ctx context.Context, startYear int, statType string) ([]provider.Leader, error) {
	params := url.Values{
		"season":    {strconv.Itoa(startYear)},
		"stat_type": {statType},
	}

	var leaders []provider.Leader
	err := each(ctx, h.client, "/leaders", params, func(page []bdlLeaderRaw) error {
		for _, raw := range page {
			l, ok := normalizeNBALeader(raw, startYear)
			if !ok {
				h.logger.Debug("Skipping leader without value", "player_id", raw.Player.ID)
				continue
			}
			leaders = append(leaders, l)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch NBA %s leaders: %w", statType, err)
	}
	return leaders, nil
}

func normalizeNBALeader(raw bdlLeaderRaw, startYear int) (provider.Leader, bool) {
	v, ok := provider.ExtractValue(raw.Value)
	if !ok {
		return provider.Leader{}, false
	}
	name := strings.TrimSpace(raw.Player.FirstName + " " + raw.Player.LastName)
	if name == "" {
		name = fmt.Sprintf("Player %d", raw.Player.ID)
	}
	season := raw.Season
	if season == 0 {
		season = startYear
	}
	return provider.Leader{
		PlayerID:    raw.Player.ID,
		PlayerName:  name,
		TeamID:      raw.Player.TeamID,
		Season:      season,
		Rank:        raw.Rank,
		GamesPlayed: raw.GamesPlayed,
		Value:       v,
	}, true
}
