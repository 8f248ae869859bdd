package marketcap

import (
	"regexp"
	"strconv"
	"strings"
)

var capPattern = regexp.MustCompile(`([\d.,]+)\s*([TBMtbm]?)`)

// ParseMarketCap converts a display string like "$3.456 T" into its
// numeric dollar value. unparseable input yields 0, never an error.
// this is the fallback path for rows that lack the precise data-sort
// attribute.
func ParseMarketCap(text string) float64 {
	if text == "" {
		return 0
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "$", ""))

	match := capPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	number, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	switch strings.ToUpper(match[2]) {
	case "T":
		return number * 1e12
	case "B":
		return number * 1e9
	case "M":
		return number * 1e6
	default:
		return number
	}
}
