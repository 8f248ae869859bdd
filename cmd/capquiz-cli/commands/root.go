package commands

import (
	"context"
	"fmt"
	"os"

	"capquiz-backend/lib/restyutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capquiz-cli",
	Short: "capquiz-cli scrapes, validates and serves the market cap quiz dataset.",
}

var dataPath *string
var logPath *string
var dumpHttp *string

func init() {
	dataPath = rootCmd.PersistentFlags().String(
		"data", "data/quiz-data.json",
		"Where the quiz snapshot is written.",
	)
	logPath = rootCmd.PersistentFlags().String(
		"logs", "logs/update.log",
		"Where the update audit log is appended.",
	)
	dumpHttp = rootCmd.PersistentFlags().String(
		"dump-http", "",
		"Dump every HTTP exchange to files under this directory.",
	)
}

func instrumentOutput() restyutil.InstrumentOutput {
	if *dumpHttp == "" {
		return nil
	}
	return restyutil.NewFilesystemOutput(*dumpHttp)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
