// Package csvstats reads the "NBA Team Stats" spreadsheet export: one row per
// team and season with free-text team names and per-game averages.
package csvstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/albapepper/nba-stats-bot/internal/provider"
)

// Known export headers and the column names they load into.
var renames = map[string]string{
	"Team":         "team",
	"Season":       "season",
	"PTS Per Game": "pts",
	"FG%":          "fg_pct",
	"TRB":          "trb",
	"AST":          "ast",
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader maps an export header to a column name: known headers are
// renamed, the rest are trimmed, lowercased and snake_cased with "%" spelled
// as "_pct".
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if r, ok := renames[h]; ok {
		return r
	}
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, "%", "_pct")
	h = spaceRe.ReplaceAllString(h, "_")
	return strings.Trim(h, "_")
}

// Result holds the parsed rows and how many were dropped.
type Result struct {
	Rows    []provider.TeamSeasonRow
	Skipped int
}

// Read parses an export. Rows without a team or a parsable season are
// dropped and counted. Blank and non-numeric cells are left out of Stats.
func Read(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	hdr, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(hdr))
	iTeam, iSeason := -1, -1
	for i, h := range hdr {
		cols[i] = NormalizeHeader(h)
		switch cols[i] {
		case "team":
			iTeam = i
		case "season":
			iSeason = i
		}
	}
	if iTeam < 0 || iSeason < 0 {
		return Result{}, errors.New("required columns missing (need Team, Season)")
	}

	var res Result
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read row: %w", err)
		}

		team := cell(rec, iTeam)
		season, ok := provider.ParseSeason(cell(rec, iSeason))
		if team == "" || !ok {
			res.Skipped++
			continue
		}

		stats := make(map[string]float64, len(cols))
		for i, col := range cols {
			if i == iTeam || i == iSeason || col == "" {
				continue
			}
			if v, ok := provider.ParseNumber(cell(rec, i)); ok {
				stats[col] = v
			}
		}
		res.Rows = append(res.Rows, provider.TeamSeasonRow{Team: team, Season: season, Stats: stats})
	}
	return res, nil
}

// ReadFile parses the export at path. A missing file is reported with
// os.ErrNotExist so callers can treat the export as optional.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open team stats csv: %w", err)
	}
	defer f.Close()

	res, err := Read(f)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
