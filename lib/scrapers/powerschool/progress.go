package powerschool

import (
	"regexp"
	"strconv"
	"time"
)

// due dates are Month/Day/Year with no zero padding
var dueDateRegex = regexp.MustCompile(`(\d+)/(\d+)/(\d+)`)

// MarkInProgress flags every course with at least one assignment due
// between cutoff and now, inclusive on both ends, and clears the flag
// on the rest. The window is evaluated entirely in now's location, so
// a cutoff given in another zone lands on its calendar day there. It
// re-derives month/day/year from the raw due-date text each time, so
// re-running with the same inputs on the same day always produces the
// same result.
func MarkInProgress(s *Student, cutoff, now time.Time) {
	today := dayOf(now)
	cutoffDay := dayOf(cutoff.In(now.Location()))

	for _, course := range s.Courses {
		course.InProgress = false
		for _, a := range course.Assignments {
			m := dueDateRegex.FindStringSubmatch(a.DueDate)
			if m == nil {
				continue
			}
			month, _ := strconv.Atoi(m[1])
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			due := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())

			if !due.Before(cutoffDay) && !due.After(today) {
				course.InProgress = true
				break
			}
		}
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
