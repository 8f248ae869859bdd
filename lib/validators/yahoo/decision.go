package yahoo

import "fmt"

// abort thresholds, fixed by the publishing contract: a snapshot with
// this much disagreement is worse than keeping the previous one.
const (
	MaxErrors   = 10
	MaxNotFound = 20
	MaxFailed   = 20
)

type Stats struct {
	Total     int `json:"total"`
	Validated int `json:"validated"`
	Warnings  int `json:"warnings"`
	Errors    int `json:"errors"`
	NotFound  int `json:"notFound"`
	Failed    int `json:"failed"`
}

type Decision struct {
	ShouldUpdate bool   `json:"shouldUpdate"`
	Reason       string `json:"reason"`
	Stats        *Stats `json:"stats,omitempty"`
}

// ShouldProceed turns one validation pass into a publish/abort
// verdict. thresholds are checked in order, first breach wins.
func ShouldProceed(results Results) Decision {
	if len(results.Errors) > MaxErrors {
		return Decision{
			ShouldUpdate: false,
			Reason: fmt.Sprintf(
				"Too many validation errors: %d companies with >1%% variance",
				len(results.Errors),
			),
		}
	}

	if len(results.NotFound) > MaxNotFound {
		return Decision{
			ShouldUpdate: false,
			Reason:       fmt.Sprintf("Too many tickers not found: %d companies", len(results.NotFound)),
		}
	}

	if len(results.Failed) > MaxFailed {
		return Decision{
			ShouldUpdate: false,
			Reason:       fmt.Sprintf("Too many API failures: %d companies", len(results.Failed)),
		}
	}

	return Decision{
		ShouldUpdate: true,
		Reason:       "Validation passed quality checks",
		Stats: &Stats{
			Total:     results.Total(),
			Validated: len(results.Validated),
			Warnings:  len(results.Warnings),
			Errors:    len(results.Errors),
			NotFound:  len(results.NotFound),
			Failed:    len(results.Failed),
		},
	}
}
