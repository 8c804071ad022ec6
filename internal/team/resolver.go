// Package team maps free-text team fragments ("the Wiz", "LAL", "boston") to
// canonical teams.
package team

import (
	"strings"

	"github.com/albapepper/nba-stats-bot/internal/store"
)

// minAlpha is the fewest letters a fragment needs before any lookup.
const minAlpha = 3

// Resolver is an immutable lookup built from the teams relation and an alias
// table. It is safe for concurrent use.
type Resolver struct {
	aliases Aliases
	byKey   map[string]store.Team
	teams   []store.Team
}

// NewResolver indexes every team under its full name, abbreviation and
// "city mascot" key. A city is indexed only when exactly one team plays there
// and no other key already claims it, so "los angeles" resolves to nothing.
func NewResolver(aliases Aliases, teams []store.Team) *Resolver {
	r := &Resolver{
		aliases: aliases.normalized(),
		byKey:   make(map[string]store.Team, len(teams)*4),
		teams:   append([]store.Team(nil), teams...),
	}

	for _, t := range teams {
		for _, k := range Keys(t) {
			if _, taken := r.byKey[k]; !taken {
				r.byKey[k] = t
			}
		}
	}

	cities := make(map[string]int, len(teams))
	for _, t := range teams {
		cities[Normalize(t.City)]++
	}
	for _, t := range teams {
		c := Normalize(t.City)
		if c == "" || cities[c] > 1 {
			continue
		}
		if _, taken := r.byKey[c]; !taken {
			r.byKey[c] = t
		}
	}
	return r
}

// Keys returns the normalized name keys of t, most specific first: full name,
// city plus mascot, abbreviation. Cities are excluded.
func Keys(t store.Team) []string {
	name := Normalize(t.Name)
	keys := []string{name}
	if fields := strings.Fields(name); len(fields) > 0 {
		if cm := Normalize(t.City + " " + fields[len(fields)-1]); cm != name {
			keys = append(keys, cm)
		}
	}
	if ab := Normalize(t.Abbrev); ab != "" {
		keys = append(keys, ab)
	}
	out := keys[:0]
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Resolve returns the team a fragment refers to. Aliases are consulted before
// team keys. Fragments with fewer than three letters never match.
func (r *Resolver) Resolve(fragment string) (store.Team, bool) {
	key := Normalize(fragment)
	if alphaCount(key) < minAlpha {
		return store.Team{}, false
	}
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	t, ok := r.byKey[key]
	return t, ok
}

// Len reports how many teams the resolver knows.
func (r *Resolver) Len() int {
	return len(r.teams)
}

// Teams returns the teams the resolver was built from.
func (r *Resolver) Teams() []store.Team {
	return append([]store.Team(nil), r.teams...)
}
