package marketcap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMarketCap(t *testing.T) {
	testCases := []struct {
		text     string
		expected float64
	}{
		{"$3.456T", 3.456e12},
		{"$3.456 T", 3.456e12},
		{"$123.45B", 123.45e9},
		{"$123.45 B", 123.45e9},
		{"$2.1b", 2.1e9},
		{"$950 M", 950e6},
		{"$1,234.5 M", 1234.5e6},
		{"$500", 500},
		{"  $500  ", 500},
		{"", 0},
		{"N/A", 0},
		{"$", 0},
	}

	for _, test := range testCases {
		require.InDelta(t, test.expected, ParseMarketCap(test.text), 1e-3, "input: %q", test.text)
	}
}

func TestDetermineExchange(t *testing.T) {
	testCases := []struct {
		ticker   string
		country  string
		expected string
	}{
		// suffix wins over country
		{"0700.HK", "China", "HKEX"},
		{"SHEL.L", "UK", "LSE"},
		{"600519.SS", "China", "SSE"},
		{"002594.SZ", "China", "SZSE"},
		{"7203.T", "Japan", "TSE"},
		{"005930.KS", "South Korea", "KRX"},
		{"MC.PA", "France", "Euronext Paris"},
		{"SAP.DE", "Germany", "XETRA"},
		{"NESN.SW", "Switzerland", "SIX"},
		{"ASML.AS", "Netherlands", "Euronext Amsterdam"},
		// country fallback
		{"AAPL", "USA", "NYSE/NASDAQ"},
		{"BABA", "China", "SSE/SZSE"},
		{"SONY", "Japan", "TSE"},
		{"HSBC", "United Kingdom", "LSE"},
		{"RELIANCE", "India", "NSE/BSE"},
		{"SHOP", "Canada", "TSX"},
		{"BHP", "Australia", "ASX"},
		// unrecognized country passes through verbatim
		{"ARAMCO", "Saudi Arabia", "Saudi Arabia"},
		// absent ticker short-circuits
		{"", "USA", "Unknown"},
	}

	for _, test := range testCases {
		require.Equal(
			t, test.expected,
			DetermineExchange(test.ticker, test.country),
			"ticker=%q country=%q", test.ticker, test.country,
		)
	}
}
