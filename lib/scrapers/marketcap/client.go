package marketcap

import (
	"net/http/cookiejar"
	"time"

	"capquiz-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/marketcap")

// Source is the provenance label stamped onto every scraped record.
const Source = "CompaniesMarketCap.com"

const defaultBaseUrl = "https://companiesmarketcap.com"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Client struct {
	baseUrl string
	http    *resty.Client
}

type ClientOptions struct {
	// defaults to the live ranking site when empty
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
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 10)

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{
		baseUrl: baseUrl,
		http:    client,
	}
}
