package marketcap

import "strings"

type suffixRule struct {
	suffix   string
	exchange string
}

// checked in order, first match wins
var suffixRules = []suffixRule{
	{".HK", "HKEX"},
	{".L", "LSE"},
	{".SS", "SSE"},
	{".SZ", "SZSE"},
	{".T", "TSE"},
	{".KS", "KRX"},
	{".PA", "Euronext Paris"},
	{".DE", "XETRA"},
	{".SW", "SIX"},
	{".AS", "Euronext Amsterdam"},
}

// DetermineExchange maps a ticker and country to a human-readable
// trading venue label. ticker suffixes win over the country fallback.
// this is a heuristic, not authoritative: an unrecognized country is
// returned verbatim as the "exchange".
func DetermineExchange(ticker, country string) string {
	if ticker == "" {
		return "Unknown"
	}

	for _, rule := range suffixRules {
		if strings.Contains(ticker, rule.suffix) {
			return rule.exchange
		}
	}

	switch country {
	case "USA":
		return "NYSE/NASDAQ"
	case "China":
		return "SSE/SZSE"
	case "Japan":
		return "TSE"
	case "Hong Kong":
		return "HKEX"
	case "UK", "United Kingdom":
		return "LSE"
	case "South Korea":
		return "KRX"
	case "India":
		return "NSE/BSE"
	case "Germany":
		return "XETRA"
	case "France":
		return "Euronext Paris"
	case "Switzerland":
		return "SIX"
	case "Canada":
		return "TSX"
	case "Australia":
		return "ASX"
	default:
		return country
	}
}
