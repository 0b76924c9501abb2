package commands

import (
	"log/slog"
	"os"
	"powergrades/lib/scrapers/powerschool"
	"powergrades/lib/serviceutil"

	"github.com/spf13/cobra"
)

var fetchOut *string
var fetchCompress *bool

func init() {
	fetchOut = fetchCmd.Flags().String("out", "student.json", "The file to write the exported record to.")
	fetchCompress = fetchCmd.Flags().Bool("compress", false, "zlib-compress the exported JSON.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--out <path>] [--compress]",
	Short: "Scrapes the student record and writes it out as JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		student := scrapeStudent(cmd.Context(), cfg)

		var data []byte
		var err error
		if *fetchCompress {
			data, err = powerschool.ExportCompressedJSON(student)
		} else {
			data, err = powerschool.ExportJSON(student)
		}
		if err != nil {
			serviceutil.Fatal("failed to export student record", err)
		}

		err = os.WriteFile(*fetchOut, data, 0644)
		if err != nil {
			serviceutil.Fatal("failed to write export", err)
		}
		slog.Info(
			"wrote student record",
			"out", *fetchOut,
			"bytes", len(data),
			"courses", len(student.Courses),
		)
	},
}
