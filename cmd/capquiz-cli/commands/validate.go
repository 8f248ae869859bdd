package commands

import (
	"fmt"
	"os"

	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/validators/yahoo"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Scrape the ranking page and report Yahoo Finance variance without publishing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		output := instrumentOutput()
		scraper := marketcap.NewClient(marketcap.ClientOptions{InstrumentOutput: output})
		companies, _, err := scraper.Scrape(ctx)
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			return fmt.Errorf("no companies scraped")
		}

		client := yahoo.NewClient(yahoo.ClientOptions{InstrumentOutput: output})
		results := client.Validate(ctx, companies)

		fmt.Printf("validated: %d\n", len(results.Validated))
		fmt.Printf("warnings:  %d\n", len(results.Warnings))
		fmt.Printf("errors:    %d\n", len(results.Errors))
		fmt.Printf("not found: %d\n", len(results.NotFound))
		fmt.Printf("failed:    %d\n", len(results.Failed))

		disputed := append(append([]yahoo.Result{}, results.Warnings...), results.Errors...)
		if len(disputed) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"Rank", "Ticker", "Company", "Scraped", "Yahoo", "Variance", "Status"})
			for _, r := range disputed {
				t.AppendRow(table.Row{
					r.Rank, r.Ticker, r.Company,
					fmt.Sprintf("%.0f", r.ScraperMarketCap),
					fmt.Sprintf("%.0f", r.YahooMarketCap),
					r.Variance + "%",
					r.Status,
				})
			}
			t.Render()
		}

		decision := yahoo.ShouldProceed(results)
		if decision.ShouldUpdate {
			fmt.Printf("verdict: publish (%s)\n", decision.Reason)
		} else {
			fmt.Printf("verdict: abort (%s)\n", decision.Reason)
		}
		return nil
	},
}
