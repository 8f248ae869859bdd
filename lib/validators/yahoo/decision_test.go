package yahoo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func bucketed(validated, warnings, errors, notFound, failed int) Results {
	return Results{
		Validated: make([]Result, validated),
		Warnings:  make([]Result, warnings),
		Errors:    make([]Result, errors),
		NotFound:  make([]Result, notFound),
		Failed:    make([]Result, failed),
	}
}

func TestShouldProceed(t *testing.T) {
	testCases := []struct {
		name         string
		results      Results
		shouldUpdate bool
		reason       string
	}{
		{
			name:         "too many errors",
			results:      bucketed(0, 0, 11, 0, 0),
			shouldUpdate: false,
			reason:       "Too many validation errors: 11 companies with >1% variance",
		},
		{
			name:         "under every threshold",
			results:      bucketed(71, 0, 9, 15, 5),
			shouldUpdate: true,
			reason:       "Validation passed quality checks",
		},
		{
			name:         "exactly at the thresholds still proceeds",
			results:      bucketed(50, 0, 10, 20, 20),
			shouldUpdate: true,
			reason:       "Validation passed quality checks",
		},
		{
			name:         "too many not found",
			results:      bucketed(79, 0, 0, 21, 0),
			shouldUpdate: false,
			reason:       "Too many tickers not found: 21 companies",
		},
		{
			name:         "too many failures",
			results:      bucketed(79, 0, 0, 0, 21),
			shouldUpdate: false,
			reason:       "Too many API failures: 21 companies",
		},
		{
			name:         "errors threshold checked before not found",
			results:      bucketed(0, 0, 12, 25, 25),
			shouldUpdate: false,
			reason:       "Too many validation errors: 12 companies with >1% variance",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			decision := ShouldProceed(test.results)
			require.Equal(t, test.shouldUpdate, decision.ShouldUpdate)
			require.Equal(t, test.reason, decision.Reason)

			if test.shouldUpdate {
				require.NotNil(t, decision.Stats)
				require.Equal(t, test.results.Total(), decision.Stats.Total)
				require.Equal(t, len(test.results.Errors), decision.Stats.Errors)
			} else {
				require.Nil(t, decision.Stats)
			}
		})
	}
}
