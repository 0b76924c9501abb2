package commands

import (
	"log/slog"
	"os"
	"strconv"
	"powergrades/lib/gradestore"
	"powergrades/lib/gradestore/db"
	"powergrades/lib/serviceutil"
	"powergrades/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore(cfg Config) (gradestore.Store, func()) {
	dbcfg := cfg.Snapshots
	if dbcfg.File == "" && dbcfg.Url == "" {
		dbcfg.File = "grades.db"
	}
	database, err := dbcfg.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open snapshot db", err)
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to apply snapshot schema", err)
	}
	return gradestore.NewStore(database), func() { database.Close() }
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Scrapes the student record and stores today's course grades.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		student := scrapeStudent(cmd.Context(), cfg)

		var snapshots []gradestore.CourseSnapshot
		for _, course := range student.Courses {
			value, err := strconv.ParseFloat(course.NumberGrade, 64)
			if err != nil {
				slog.Warn(
					"skipping course with non-numeric grade",
					"course", course.Name,
					"grade", course.NumberGrade,
				)
				continue
			}
			snapshots = append(snapshots, gradestore.CourseSnapshot{
				Course: course.Name,
				Value:  value,
			})
		}

		store, cleanup := openStore(cfg)
		defer cleanup()

		err := store.Push(cmd.Context(), cfg.Username, timezone.Now(), snapshots)
		if err != nil {
			serviceutil.Fatal("failed to push snapshots", err)
		}
		slog.Info("pushed grade snapshots", "courses", len(snapshots))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the stored grade series for each course.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, cleanup := openStore(cfg)
		defer cleanup()

		series, err := store.Pull(cmd.Context(), cfg.Username)
		if err != nil {
			serviceutil.Fatal("failed to pull snapshots", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Time", "Grade"})
		for _, course := range series {
			for _, s := range course.Snapshots {
				t.AppendRow(table.Row{
					course.Course,
					s.Time.Format("1/2/2006"),
					s.Value,
				})
			}
		}
		t.Render()
	},
}
