package provider

import (
	"strconv"
	"strings"
)

// ExtractValue normalizes a stat value from a decoded JSON document.
//
// BDL usually returns numbers but some endpoints quote them. Returns ok=false
// when the value is absent or not numeric.
func ExtractValue(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return ParseNumber(v)
	default:
		return 0, false
	}
}

// ParseNumber parses a spreadsheet cell such as "47.5%", " 1,234 " or "115.2".
// A trailing percent sign is dropped without rescaling. Blank cells are not
// numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// EndYear converts an upstream start-year season (2023) into the end-year
// convention used by the store (2024).
func EndYear(startYear int) int {
	return startYear + 1
}

// StartYear is the inverse of EndYear.
func StartYear(endYear int) int {
	return endYear - 1
}

// SeasonLabel renders an end-year season the way box scores print it:
// 2024 becomes "2023-24".
func SeasonLabel(endYear int) string {
	yy := strconv.Itoa(endYear % 100)
	if len(yy) == 1 {
		yy = "0" + yy
	}
	return strconv.Itoa(endYear-1) + "-" + yy
}

// ParseSeason accepts "2024", "2023-24" or "2023-2024" and returns the end
// year.
func ParseSeason(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if start, end, found := strings.Cut(s, "-"); found {
		y, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return 0, false
		}
		end = strings.TrimSpace(end)
		if _, err := strconv.Atoi(end); err != nil || (len(end) != 2 && len(end) != 4) {
			return 0, false
		}
		return y + 1, true
	}
	if f, ok := ParseNumber(s); ok && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}
