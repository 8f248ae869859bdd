package commands

import (
	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/serviceutil"
	"capquiz-backend/lib/validators/yahoo"
	"capquiz-backend/services/quiz"
	"capquiz-backend/services/update"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 3000, "The port to serve the quiz API on.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz API without scheduling any updates.",
	Run: func(cmd *cobra.Command, args []string) {
		updater := update.NewService(
			marketcap.NewClient(marketcap.ClientOptions{}),
			yahoo.NewClient(yahoo.ClientOptions{}),
			update.Config{DataPath: *dataPath, LogPath: *logPath},
		)
		service := quiz.NewService(*dataPath, *logPath, updater)

		serviceutil.StartHttpServer(*servePort, service.Router())
	},
}
