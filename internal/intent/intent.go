// Package intent classifies a question by literal keyword triggers and pulls
// out the team fragment and optional season.
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Intent is the kind of question asked.
type Intent string

const (
	AveragePoints Intent = "average_points"
	LastGame      Intent = "last_game"
	Unknown       Intent = "unknown"
)

// Rule pairs an intent with its trigger predicate. Match receives the
// lowercased question and returns the phrase that fired.
type Rule struct {
	Intent Intent
	Match  func(q string) (trigger string, ok bool)
}

// lastGamePhrases are checked in order.
var lastGamePhrases = []string{"last game", "recent result", "last match"}

// Rules is evaluated in order; the first match wins. A question that mentions
// both an average and a last game is an average question.
var Rules = []Rule{
	{Intent: AveragePoints, Match: func(q string) (string, bool) {
		if !strings.Contains(q, "average") {
			return "", false
		}
		if strings.Contains(q, "points") {
			return "average", true
		}
		if strings.Contains(q, "ppg") {
			return "average", true
		}
		return "", false
	}},
	{Intent: LastGame, Match: func(q string) (string, bool) {
		for _, p := range lastGamePhrases {
			if strings.Contains(q, p) {
				return p, true
			}
		}
		return "", false
	}},
}

// Parsed is the outcome of Parse. Season is nil when the question names none.
type Parsed struct {
	Intent   Intent
	Season   *int
	Fragment string
	Trigger  string
}

var seasonRe = regexp.MustCompile(`\b\d{4}\b`)

// Words removed from an average question before team resolution.
var averageStopWords = map[string]bool{
	"average": true, "points": true, "ppg": true,
	"what": true, "did": true, "does": true, "do": true, "the": true,
	"in": true, "for": true, "per": true, "game": true, "of": true, "is": true,
}

// Classify returns the intent of q and the trigger that matched.
func Classify(q string) (Intent, string) {
	q = strings.ToLower(q)
	for _, r := range Rules {
		if trigger, ok := r.Match(q); ok {
			return r.Intent, trigger
		}
	}
	return Unknown, ""
}

// Parse classifies question and extracts its season and team fragment.
func Parse(question string) Parsed {
	q := strings.ToLower(strings.TrimSpace(question))
	in, trigger := Classify(q)
	p := Parsed{Intent: in, Trigger: trigger}

	switch in {
	case AveragePoints:
		if m := seasonRe.FindString(q); m != "" {
			year, _ := strconv.Atoi(m)
			p.Season = &year
		}
		p.Fragment = averageFragment(q)
	case LastGame:
		p.Fragment = lastGameFragment(q, trigger)
	}
	return p
}

func averageFragment(q string) string {
	var kept []string
	for _, tok := range strings.Fields(q) {
		word := strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if averageStopWords[word] || isYear(word) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func lastGameFragment(q, trigger string) string {
	i := strings.LastIndex(q, trigger)
	if i < 0 {
		return ""
	}
	words := strings.Fields(q[i+len(trigger):])
	for len(words) > 0 {
		switch words[0] {
		case "for", "of", "the":
			words = words[1:]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
