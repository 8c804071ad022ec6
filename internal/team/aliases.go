package team

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Aliases maps a nickname or misspelling to a canonical lookup key such as
// "los angeles lakers".
type Aliases map[string]string

// DefaultAliases returns the built-in nickname table.
func DefaultAliases() Aliases {
	return Aliases{
		"wiz":      "washington wizards",
		"wantnos":  "washington wizards",
		"lakers":   "los angeles lakers",
		"celtics":  "boston celtics",
		"celllics": "boston celtics",
		"warriors": "golden state warriors",
		"heat":     "miami heat",
	}
}

// LoadAliases reads a YAML mapping of alias to canonical key and merges it
// over the defaults. An empty path returns the defaults.
//
//	dubs: golden state warriors
//	sixers: philadelphia 76ers
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases file: %w", err)
	}
	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse aliases file %s: %w", path, err)
	}
	maps.Copy(aliases, extra)
	return aliases.normalized(), nil
}

func (a Aliases) normalized() Aliases {
	out := make(Aliases, len(a))
	for k, v := range a {
		k, v = Normalize(k), Normalize(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
