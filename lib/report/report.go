// Package report renders a student's in-progress courses as grade
// tables, the successor of the legacy spreadsheet export. Totals,
// per-assignment percentages and the category summary reproduce the
// old sheet's formulas directly instead of emitting them as formulas.
package report

import (
	"fmt"
	"io"
	"math"
	"powergrades/lib/scrapers/powerschool"
	"powergrades/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Options struct {
	// CSV renders comma-separated output for spreadsheet import
	// instead of terminal tables.
	CSV bool
	// IncludeAll renders every course instead of only those marked in
	// progress.
	IncludeAll bool
}

// Write renders one table (plus a category summary) per course.
func Write(w io.Writer, student *powerschool.Student, opts Options) {
	fmt.Fprintf(
		w, "%s %s — GPA %s\n",
		student.FirstName, student.LastName, student.GPA,
	)

	for _, course := range student.Courses {
		if !opts.IncludeAll && !course.InProgress {
			continue
		}
		writeCourse(w, course, opts)
	}
}

func writeCourse(w io.Writer, course *powerschool.Course, opts Options) {
	fmt.Fprintf(
		w, "\n%s — %s (%s, %s%%)\n",
		textutil.SanitizeTitle(course.Name),
		course.Teacher,
		course.LetterGrade,
		course.NumberGrade,
	)

	t := newTable(w)
	t.AppendHeader(table.Row{"Due Date", "Category", "Name", "Score", "Out of", "%"})

	var totalScore, totalOutOf float64
	for _, a := range course.Assignments {
		t.AppendRow(table.Row{
			a.DueDate, a.Category, a.Name,
			a.Score, a.OutOf, assignmentPercent(a),
		})
		totalScore += a.Score
		totalOutOf += a.OutOf
	}
	t.AppendFooter(table.Row{
		"Total", "", "",
		totalScore, totalOutOf, percent(totalScore, totalOutOf),
	})
	render(t, opts)

	writeCategorySummary(w, course, opts)
}

func writeCategorySummary(w io.Writer, course *powerschool.Course, opts Options) {
	if len(course.Categories) == 0 {
		return
	}

	weightFor := map[string]float64{}
	for _, cw := range course.Weights {
		weightFor[cw.Name] = cw.Weight
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Weight", "Score", "Points", "Avg %"})
	for _, category := range course.Categories {
		var score, outOf float64
		for _, a := range course.Assignments {
			if a.Category != category {
				continue
			}
			score += a.Score
			outOf += a.OutOf
		}

		weight := any("")
		if v, ok := weightFor[category]; ok {
			weight = v
		}
		t.AppendRow(table.Row{category, weight, score, outOf, percent(score, outOf)})
	}
	if weighted, ok := powerschool.WeightedPercent(course); ok {
		t.AppendFooter(table.Row{"Weighted", "", "", "", round2(weighted)})
	}
	render(t, opts)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func render(t table.Writer, opts Options) {
	if opts.CSV {
		t.RenderCSV()
		return
	}
	t.Render()
}

// the legacy sheet wrote 100% for zero-point assignments to dodge a
// division by zero, keep that behavior
func assignmentPercent(a powerschool.Assignment) float64 {
	return percent(a.Score, a.OutOf)
}

func percent(score, outOf float64) float64 {
	if outOf == 0 {
		return 100
	}
	return round2(score * 100 / outOf)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
