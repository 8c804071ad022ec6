package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		q    string
		want Intent
	}{
		{"What did the Lakers average in 2024?", Unknown}, // no points/ppg
		{"Lakers average points 2024", AveragePoints},
		{"Average PPG for the heat", AveragePoints},
		{"last game for the Warriors", LastGame},
		{"most recent result celtics", LastGame},
		{"Last match of the wiz", LastGame},
		{"average points and last game for the lakers", AveragePoints},
		{"asdf", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got, _ := Classify(tt.q); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestParseAverage(t *testing.T) {
	tests := []struct {
		q          string
		wantFrag   string
		wantSeason int // 0 means none
	}{
		{"What did the Lakers average points in 2024?", "lakers", 2024},
		{"average points for Atlantis", "atlantis", 0},
		{"Celtics average ppg", "celtics", 0},
		{"average points per game for the Golden State Warriors 2023", "golden state warriors", 2023},
		{"average points 1999 2024 heat", "heat", 1999},
	}
	for _, tt := range tests {
		p := Parse(tt.q)
		if p.Intent != AveragePoints {
			t.Errorf("Parse(%q).Intent = %v", tt.q, p.Intent)
			continue
		}
		if p.Fragment != tt.wantFrag {
			t.Errorf("Parse(%q).Fragment = %q, want %q", tt.q, p.Fragment, tt.wantFrag)
		}
		switch {
		case tt.wantSeason == 0 && p.Season != nil:
			t.Errorf("Parse(%q).Season = %d, want none", tt.q, *p.Season)
		case tt.wantSeason != 0 && (p.Season == nil || *p.Season != tt.wantSeason):
			t.Errorf("Parse(%q).Season = %v, want %d", tt.q, p.Season, tt.wantSeason)
		}
	}
}

func TestParseLastGame(t *testing.T) {
	tests := map[string]string{
		"Last game for the Wiz":                  "wiz",
		"last game of the boston celtics?":       "boston celtics?",
		"recent result heat":                     "heat",
		"last game? last game for the warriors":  "warriors",
		"last game":                              "",
	}
	for q, want := range tests {
		p := Parse(q)
		if p.Intent != LastGame {
			t.Errorf("Parse(%q).Intent = %v, want LastGame", q, p.Intent)
			continue
		}
		if p.Fragment != want {
			t.Errorf("Parse(%q).Fragment = %q, want %q", q, p.Fragment, want)
		}
		if p.Season != nil {
			t.Errorf("Parse(%q).Season = %d, want none", q, *p.Season)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	if len(Rules) != 2 || Rules[0].Intent != AveragePoints || Rules[1].Intent != LastGame {
		t.Errorf("Rules order = %v, want AveragePoints then LastGame", Rules)
	}
}
