package powerschool

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"powergrades/lib/textutil"

	"github.com/antzucaro/matchr"
)

// map[CourseName]map[CategoryName]<weight value: 0-1>
type WeightData = map[string]map[string]float64

type CategoryWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ApplyWeights attaches caller-configured grading weights to the
// matching courses. Teachers rarely type category names the same way
// twice, so any assignment category that isn't an exact match for a
// weighted category snaps to the most similar one.
func ApplyWeights(ctx context.Context, student *Student, weights WeightData) {
	for courseName, categories := range weights {
		// course names in hand-written weight tables rarely match the
		// portal's spacing and casing exactly
		var target *Course
		for _, c := range student.Courses {
			if textutil.NormalizeName(c.Name) == textutil.NormalizeName(courseName) {
				target = c
				break
			}
		}
		if target == nil {
			slog.WarnContext(
				ctx,
				"no course matches weight table entry",
				"course", courseName,
			)
			continue
		}

		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		slices.Sort(names)

		target.Weights = make([]CategoryWeight, len(names))
		for i, name := range names {
			target.Weights[i] = CategoryWeight{Name: name, Weight: categories[name]}
		}

		for i := range target.Assignments {
			a := &target.Assignments[i]
			if _, ok := categories[a.Category]; ok {
				continue
			}

			mostSimilar := ""
			var similarity float64
			for _, name := range names {
				sim := matchr.JaroWinkler(a.Category, name, false)
				if sim > similarity {
					similarity = sim
					mostSimilar = name
				}
			}
			if mostSimilar != "" {
				a.Category = mostSimilar
			}
		}

		rebuildCategories(target)
	}
}

// snapping categories above may merge or rename entries, so the
// first-seen category set is derived again from the assignments
func rebuildCategories(course *Course) {
	course.Categories = nil
	for _, a := range course.Assignments {
		if !slices.Contains(course.Categories, a.Category) {
			course.Categories = append(course.Categories, a.Category)
		}
	}
}

// WeightedPercent computes the course percentage with each category's
// contribution scaled by its configured weight, mirroring the
// SUMPRODUCT formula of the legacy spreadsheet export. The second
// return is false when the course has no weights or no graded points.
func WeightedPercent(course *Course) (float64, bool) {
	if len(course.Weights) == 0 {
		return 0, false
	}

	var earned, possible float64
	for _, w := range course.Weights {
		var score, outOf float64
		for _, a := range course.Assignments {
			if !strings.EqualFold(a.Category, w.Name) {
				continue
			}
			score += a.Score
			outOf += a.OutOf
		}
		earned += w.Weight * score
		possible += w.Weight * outOf
	}
	if possible == 0 {
		return 0, false
	}
	return earned / possible * 100, true
}
