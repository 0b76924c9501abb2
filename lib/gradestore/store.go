// Package gradestore keeps a per-user time series of course grades in
// sqlite, one snapshot per course per scrape. Pushing twice on the
// same day replaces that day's snapshots so a daily scrape stays one
// row per day.
package gradestore

import (
	"context"
	"database/sql"
	"time"
	"powergrades/lib/timezone"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type CourseSnapshot struct {
	Course string
	Value  float64
}

func (s Store) Push(ctx context.Context, user string, at time.Time, courses []CourseSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	startOfToday := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, timezone.Location).Unix()
	startOfTomorrow := time.Date(at.Year(), at.Month(), at.Day()+1, 0, 0, 0, 0, timezone.Location).Unix()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM grade_snapshot
		WHERE time >= ? AND time < ?
		AND user_course_id IN (SELECT id FROM user_course WHERE user = ?)
	`, startOfToday, startOfTomorrow, user)
	if err != nil {
		return err
	}

	for _, course := range courses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_course (user, course) VALUES (?, ?)
			ON CONFLICT (user, course) DO NOTHING
		`, user, course.Course)
		if err != nil {
			return err
		}

		var userCourseId int64
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM user_course WHERE user = ? AND course = ?
		`, user, course.Course).Scan(&userCourseId)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO grade_snapshot (user_course_id, time, value)
			VALUES (?, ?, ?)
		`, userCourseId, at.Unix(), course.Value)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

type GradeSnapshot struct {
	Time  time.Time
	Value float64
}

type CourseSnapshotSeries struct {
	Course    string
	Snapshots []GradeSnapshot
}

func (s Store) Pull(ctx context.Context, user string) ([]CourseSnapshotSeries, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uc.course, gs.time, gs.value
		FROM grade_snapshot gs
		JOIN user_course uc ON uc.id = gs.user_course_id
		WHERE uc.user = ?
		ORDER BY uc.course, gs.time
	`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []CourseSnapshotSeries
	for rows.Next() {
		var course string
		var unix int64
		var value float64
		if err := rows.Scan(&course, &unix, &value); err != nil {
			return nil, err
		}

		snapshot := GradeSnapshot{
			Time:  time.Unix(unix, 0).In(timezone.Location),
			Value: value,
		}
		if len(courses) > 0 && courses[len(courses)-1].Course == course {
			last := &courses[len(courses)-1]
			last.Snapshots = append(last.Snapshots, snapshot)
			continue
		}
		courses = append(courses, CourseSnapshotSeries{
			Course:    course,
			Snapshots: []GradeSnapshot{snapshot},
		})
	}
	return courses, rows.Err()
}
