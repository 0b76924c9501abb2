package commands

import (
	"os"
	"powergrades/lib/report"

	"github.com/spf13/cobra"
)

var reportCSV *bool
var reportAll *bool

func init() {
	reportCSV = reportCmd.Flags().Bool("csv", false, "render CSV instead of tables")
	reportAll = reportCmd.Flags().Bool("all", false, "include courses that are not in progress")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [--csv] [--all]",
	Short: "Scrapes the student record and prints per-course grade tables.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		student := scrapeStudent(cmd.Context(), cfg)

		report.Write(os.Stdout, student, report.Options{
			CSV:        *reportCSV,
			IncludeAll: *reportAll,
		})
	},
}
