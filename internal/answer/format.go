// Package answer turns a question into a one-line reply: parse, resolve the
// team, query the store and format the result.
package answer

import (
	"fmt"

	"github.com/albapepper/nba-stats-bot/internal/intent"
	"github.com/albapepper/nba-stats-bot/internal/query"
	"github.com/albapepper/nba-stats-bot/internal/store"
)

// Fixed replies.
const (
	HelpText       = "Try e.g. 'What did the Lakers average in 2024?' or 'Last game for the Warriors'"
	UnknownTeam    = "Team not recognised."
	NoRecentGames  = "No recent games found."
	NotReadyText   = "Stats are not loaded yet. Please try again after the next data refresh."
	averageFormat  = "%s averaged %.1f PPG in %d."
	noGamesFormat  = "No games found for %s in %d."
	lastGameFormat = "🏀 %s: %s %d – %d %s"
)

// Outcome labels a reply for logs and metrics.
type Outcome string

const (
	OutcomeAnswered     Outcome = "answered"
	OutcomeNoData       Outcome = "no_data"
	OutcomeUnrecognised Outcome = "unrecognised"
	OutcomeHelp         Outcome = "help"
	OutcomeNotReady     Outcome = "not_ready"
	OutcomeError        Outcome = "error"
)

// Reply is everything Format needs. Resolved is false when the fragment did
// not match a team; Team is then empty.
type Reply struct {
	Intent   intent.Intent
	Status   query.Status
	Resolved bool
	Team     string
	Season   int
	Average  float64
	Game     store.GameResult
	Outcome  Outcome
	Text     string
}

// Format renders r. It has no side effects.
func Format(r Reply) string {
	if r.Status == query.DataUnavailable {
		return NotReadyText
	}
	if r.Intent == intent.Unknown || r.Intent == "" {
		return HelpText
	}
	if !r.Resolved {
		return UnknownTeam
	}

	switch r.Intent {
	case intent.AveragePoints:
		if r.Status != query.Found {
			return fmt.Sprintf(noGamesFormat, r.Team, r.Season)
		}
		return fmt.Sprintf(averageFormat, r.Team, r.Average, r.Season)
	case intent.LastGame:
		if r.Status != query.Found {
			return NoRecentGames
		}
		g := r.Game
		return fmt.Sprintf(lastGameFormat, g.Date, g.HomeName, g.HomeScore, g.AwayScore, g.AwayName)
	}
	return HelpText
}
