package marketcap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"capquiz-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MaxCompanies caps how many accepted rows a scrape can produce. the
// ranking page carries advertisement rows and overflows past rank 100,
// everything beyond the cap is excluded.
const MaxCompanies = 100

// Company is one ranked entity, json field names are the contract with
// the quiz front end and must not change.
type Company struct {
	Rank               int     `json:"rank" validate:"required,gt=0"`
	Name               string  `json:"name" validate:"required"`
	Ticker             string  `json:"ticker"`
	MarketCap          float64 `json:"marketCap" validate:"gt=0"`
	MarketCapFormatted string  `json:"marketCapFormatted"`
	Country            string  `json:"country"`
	Exchange           string  `json:"exchange"`
	Logo               *string `json:"logo"`
	Source             string  `json:"source"`
	LastUpdated        string  `json:"lastUpdated"`
}

// Discard records why a table row was rejected. rejected rows are
// expected (ads, header filler), they are diagnostics, not errors.
type Discard struct {
	Row    int
	Reason string
}

// Scrape fetches the ranking page and parses it into ranked company
// records. any transport failure or non-200 status aborts the whole
// scrape, there are no retries at this layer.
func (c *Client) Scrape(ctx context.Context) ([]Company, []Discard, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch ranking page")
		return nil, nil, fmt.Errorf("fetch ranking page: %w", err)
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, nil, fmt.Errorf("fetch ranking page: unexpected status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, nil, fmt.Errorf("parse ranking page: %w", err)
	}

	companies, discards := parseDocument(doc, c.baseUrl, time.Now().UTC())

	span.SetAttributes(
		attribute.Int("companies", len(companies)),
		attribute.Int("discarded_rows", len(discards)),
	)
	slog.InfoContext(
		ctx, "scraped ranking page",
		"companies", len(companies),
		"discarded_rows", len(discards),
	)

	return companies, discards, nil
}

// two-codepoint regional indicator sequences, the country cell leads
// with a flag emoji that the front end re-derives on its own
var flagEmoji = regexp.MustCompile(`[\x{1F1E0}-\x{1F1FF}]{2}`)

// collects the text content of every node in the selection, so nested
// markup inside a cell (links, spans, bold runs) flattens to one string
func cellText(sel *goquery.Selection) string {
	var buf strings.Builder
	for _, node := range sel.Nodes {
		buf.WriteString(htmlutil.GetText(node))
	}
	return htmlutil.CleanText(buf.String())
}

func parseDocument(doc *goquery.Document, baseUrl string, now time.Time) ([]Company, []Discard) {
	var companies []Company
	var discards []Discard
	scrapedAt := now.Format(time.RFC3339)

	doc.Find("tbody tr").EachWithBreak(func(row int, tr *goquery.Selection) bool {
		if len(companies) >= MaxCompanies {
			return false
		}

		rankText := cellText(tr.Find("td.rank-td"))
		rank, _ := strconv.Atoi(rankText)

		nameCell := tr.Find("td.name-td")
		name := cellText(nameCell.Find(".company-name"))
		ticker := cellText(nameCell.Find(".company-code"))
		logoSrc := nameCell.Find(".company-logo").AttrOr("src", "")

		// the data-sort attribute carries the precise dollar figure,
		// the cell text is only a rounded display string
		capCell := tr.Find("td").Eq(3)
		capText := cellText(capCell)
		capValue, err := strconv.ParseFloat(capCell.AttrOr("data-sort", ""), 64)
		if err != nil {
			capValue = ParseMarketCap(capText)
		}

		countryText := cellText(tr.Find("td").Last())
		country := strings.TrimSpace(flagEmoji.ReplaceAllString(countryText, ""))

		exchange := DetermineExchange(ticker, country)

		switch {
		case rank <= 0:
			discards = append(discards, Discard{Row: row, Reason: "missing or unparsable rank"})
			return true
		case name == "":
			discards = append(discards, Discard{Row: row, Reason: "missing company name"})
			return true
		case capValue <= 0:
			discards = append(discards, Discard{Row: row, Reason: "missing or zero market cap"})
			return true
		}

		if ticker == "" {
			ticker = "N/A"
		}
		if country == "" {
			country = "Unknown"
		}

		var logo *string
		if logoSrc != "" {
			absolute := logoSrc
			if !strings.HasPrefix(logoSrc, "http") {
				absolute = baseUrl + logoSrc
			}
			logo = &absolute
		}

		companies = append(companies, Company{
			Rank:               rank,
			Name:               name,
			Ticker:             ticker,
			MarketCap:          capValue,
			MarketCapFormatted: capText,
			Country:            country,
			Exchange:           exchange,
			Logo:               logo,
			Source:             Source,
			LastUpdated:        scrapedAt,
		})
		return true
	})

	return companies, discards
}
