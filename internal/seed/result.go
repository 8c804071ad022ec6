// Package seed runs the ETL job: fetch from upstream, filter and convert to
// store rows, then replace the store snapshot in one transaction.
package seed

import "fmt"

// Result tracks counts and non-fatal errors from one ETL run.
type Result struct {
	RunID            string
	Season           int
	Teams            int
	Games            int
	GamesSkipped     int
	TeamStats        int
	TeamStatsSkipped int
	Leaders          int
	Errors           []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"season=%d teams=%d games=%d games_skipped=%d team_stats=%d team_stats_skipped=%d leaders=%d errors=%d",
		r.Season, r.Teams, r.Games, r.GamesSkipped,
		r.TeamStats, r.TeamStatsSkipped, r.Leaders,
		len(r.Errors),
	)
}
