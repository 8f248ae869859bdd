package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http/cookiejar"
	"time"

	"capquiz-backend/lib/restyutil"
	"capquiz-backend/lib/scrapers/marketcap"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("validators/yahoo")

const defaultBaseUrl = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to the live query API when empty
	BaseUrl string
	// optional debug dump of every HTTP exchange
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 10)

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{http: client}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// validateCompany runs the two-call chain for one ticker: the chart
// endpoint proves the ticker trades at all, the quote summary carries
// the independent market cap figure.
func (c *Client) validateCompany(ctx context.Context, company marketcap.Company) Result {
	base := Result{
		Company: company.Name,
		Ticker:  company.Ticker,
		Rank:    company.Rank,
	}

	// a scraped cap of zero has no meaningful variance, refuse the
	// comparison instead of dividing by it
	if company.MarketCap == 0 {
		base.Status = StatusNotFound
		base.Message = "No scraped market cap to compare against"
		return base
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v8/finance/chart/%s", company.Ticker))
	if err != nil {
		base.Status = StatusFailed
		base.Message = fmt.Sprintf("API call failed: %s", err.Error())
		return base
	}

	var chart chartResponse
	if res.StatusCode() != 200 || json.Unmarshal(res.Body(), &chart) != nil || len(chart.Chart.Result) == 0 {
		base.Status = StatusNotFound
		base.Message = "Ticker not found or no data available"
		return base
	}
	if chart.Chart.Result[0].Meta.RegularMarketPrice == 0 {
		base.Status = StatusNotFound
		base.Message = "No market data available"
		return base
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetQueryParam("modules", "price").
		Get(fmt.Sprintf("/v10/finance/quoteSummary/%s", company.Ticker))
	if err != nil {
		base.Status = StatusFailed
		base.Message = fmt.Sprintf("API call failed: %s", err.Error())
		return base
	}

	var quote quoteSummaryResponse
	if res.StatusCode() != 200 || json.Unmarshal(res.Body(), &quote) != nil || len(quote.QuoteSummary.Result) == 0 {
		base.Status = StatusNotFound
		base.Message = "Quote data not available"
		return base
	}

	yahooCap := quote.QuoteSummary.Result[0].Price.MarketCap.Raw
	if yahooCap == 0 {
		base.Status = StatusNotFound
		base.Message = "Market cap not available in Yahoo Finance"
		return base
	}

	variance := math.Abs(yahooCap-company.MarketCap) / company.MarketCap * 100

	switch {
	case variance <= 0.1:
		base.Status = StatusValidated
	case variance <= 1.0:
		base.Status = StatusWarning
	default:
		base.Status = StatusError
	}

	base.ScraperMarketCap = company.MarketCap
	base.YahooMarketCap = yahooCap
	base.Variance = fmt.Sprintf("%.4f", variance)
	base.Message = fmt.Sprintf("Variance: %.4f%%", variance)
	return base
}
