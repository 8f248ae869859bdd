package commands

import (
	"fmt"

	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/validators/yahoo"
	"capquiz-backend/services/update"

	"github.com/spf13/cobra"
)

var updateValidate *bool

func init() {
	updateValidate = updateCmd.Flags().Bool(
		"validate", false,
		"Cross-check the scrape against Yahoo Finance before publishing.",
	)
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one full update: scrape the ranking page and publish a new snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output := instrumentOutput()
		service := update.NewService(
			marketcap.NewClient(marketcap.ClientOptions{InstrumentOutput: output}),
			yahoo.NewClient(yahoo.ClientOptions{InstrumentOutput: output}),
			update.Config{
				DataPath: *dataPath,
				LogPath:  *logPath,
				Validate: *updateValidate,
			},
		)

		snapshot, err := service.RunUpdate(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf(
			"published %d companies to %s in %.2fs\n",
			snapshot.TotalCompanies, *dataPath, snapshot.UpdateDuration,
		)
		return nil
	},
}
