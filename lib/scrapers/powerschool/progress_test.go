package powerschool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func courseDue(dates ...string) *Course {
	course := &Course{Name: "Course"}
	for _, d := range dates {
		course.Assignments = append(course.Assignments, Assignment{
			Name:    "Assignment",
			DueDate: d,
			Score:   1,
			OutOf:   1,
		})
	}
	return course
}

func TestMarkInProgress(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		course   *Course
		expected bool
	}{
		{"due inside window", courseDue("1/15/2024"), true},
		{"due before cutoff", courseDue("12/1/2023"), false},
		{"due after today", courseDue("4/1/2024"), false},
		{"due on cutoff day", courseDue("1/1/2024"), true},
		{"due today", courseDue("3/1/2024"), true},
		{"one of many in window", courseDue("9/5/2023", "2/20/2024"), true},
		{"no assignments", courseDue(), false},
		{"unparsable due date", courseDue("soon"), false},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			student := &Student{Courses: []*Course{test.course}}
			MarkInProgress(student, cutoff, now)
			require.Equal(t, test.expected, test.course.InProgress)
		})
	}
}

func TestMarkInProgressMixedZones(t *testing.T) {
	// cutoff arrives in UTC while now is 8 hours behind; both bounds
	// truncate in now's zone, so an assignment due on the cutoff's
	// local calendar day still counts
	behind := time.FixedZone("UTC-8", -8*3600)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, behind)
	cutoff := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC) // Jan 1, 18:00 in now's zone

	course := courseDue("1/1/2024")
	student := &Student{Courses: []*Course{course}}
	MarkInProgress(student, cutoff, now)
	require.True(t, course.InProgress)
}

func TestMarkInProgressIsRepeatable(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	course := courseDue("1/15/2024")
	student := &Student{Courses: []*Course{course}}

	MarkInProgress(student, cutoff, now)
	require.True(t, course.InProgress)
	MarkInProgress(student, cutoff, now)
	require.True(t, course.InProgress)

	// a later cutoff clears a previously set flag
	MarkInProgress(student, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), now)
	require.False(t, course.InProgress)
}
