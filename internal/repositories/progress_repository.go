package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetByStudentAndCourse retrieves the progress of a student in a course
// together with its lecture entries (by lecture order) and their quiz attempts
func (r *progressRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Progress, error) {
	query := `
		SELECT id, student_id, course_id, current_lecture_id, total_lectures, created_at, updated_at
		FROM progress
		WHERE student_id = ? AND course_id = ?
		LIMIT 1
	`

	var progress models.Progress
	var currentLectureID sql.NullInt64
	err := conn(ctx, r.db).QueryRowContext(ctx, query, studentID, courseID).Scan(
		&progress.ID,
		&progress.StudentID,
		&progress.CourseID,
		&currentLectureID,
		&progress.TotalLectures,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "progress not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	if currentLectureID.Valid {
		id := int(currentLectureID.Int64)
		progress.CurrentLectureID = &id
	}

	if err := r.loadLecturesProgress(ctx, &progress); err != nil {
		return nil, err
	}

	return &progress, nil
}

func (r *progressRepository) loadLecturesProgress(ctx context.Context, progress *models.Progress) error {
	query := `
		SELECT lp.id, lp.lecture_id, lp.completed, lp.completed_at, lp.best_score
		FROM lecture_progress lp
		INNER JOIN lectures l ON l.id = lp.lecture_id
		WHERE lp.progress_id = ?
		ORDER BY l.` + "`order`"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, progress.ID)
	if err != nil {
		return fmt.Errorf("failed to query lecture progress: %w", err)
	}
	defer rows.Close()

	progress.LecturesProgress = []models.LectureProgress{}
	index := make(map[int]int)
	for rows.Next() {
		var lp models.LectureProgress
		var completedAt sql.NullTime
		if err := rows.Scan(&lp.ID, &lp.LectureID, &lp.Completed, &completedAt, &lp.BestScore); err != nil {
			return fmt.Errorf("failed to scan lecture progress: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			lp.CompletedAt = &t
		}
		lp.QuizAttempts = []models.QuizAttempt{}
		index[lp.ID] = len(progress.LecturesProgress)
		progress.LecturesProgress = append(progress.LecturesProgress, lp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	attemptsQuery := `
		SELECT qa.lecture_progress_id, qa.answers, qa.score, qa.passed, qa.attempted_at
		FROM quiz_attempts qa
		INNER JOIN lecture_progress lp ON lp.id = qa.lecture_progress_id
		WHERE lp.progress_id = ?
		ORDER BY qa.attempted_at, qa.id
	`

	attemptRows, err := conn(ctx, r.db).QueryContext(ctx, attemptsQuery, progress.ID)
	if err != nil {
		return fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer attemptRows.Close()

	for attemptRows.Next() {
		var lectureProgressID int
		var answers []byte
		var attempt models.QuizAttempt
		if err := attemptRows.Scan(&lectureProgressID, &answers, &attempt.Score, &attempt.Passed, &attempt.AttemptedAt); err != nil {
			return fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		if err := json.Unmarshal(answers, &attempt.Answers); err != nil {
			return fmt.Errorf("failed to decode quiz attempt answers: %w", err)
		}
		i, ok := index[lectureProgressID]
		if !ok {
			continue
		}
		progress.LecturesProgress[i].QuizAttempts = append(progress.LecturesProgress[i].QuizAttempts, attempt)
	}
	if err := attemptRows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// GetSnapshotsByStudent retrieves the progress snapshot of every course a student is enrolled in, keyed by course ID
func (r *progressRepository) GetSnapshotsByStudent(ctx context.Context, studentID int) (map[int]models.ProgressSnapshot, error) {
	query := `
		SELECT p.course_id, p.total_lectures, COALESCE(SUM(lp.completed), 0)
		FROM progress p
		LEFT JOIN lecture_progress lp ON lp.progress_id = p.id
		WHERE p.student_id = ?
		GROUP BY p.id, p.course_id, p.total_lectures
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[int]models.ProgressSnapshot)
	for rows.Next() {
		var courseID, total, completed int
		if err := rows.Scan(&courseID, &total, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan progress snapshot: %w", err)
		}
		snapshots[courseID] = models.NewSnapshot(completed, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snapshots, nil
}

// Create creates a progress record with its lecture entries
//
// The (student, course) pair is unique; a second record for the same pair fails with ErrDuplicateEnrollment.
func (r *progressRepository) Create(ctx context.Context, progress *models.Progress) error {
	db := conn(ctx, r.db)

	query := `
		INSERT INTO progress (student_id, course_id, current_lecture_id, total_lectures)
		VALUES (?, ?, ?, ?)
	`

	var currentLectureID any
	if progress.CurrentLectureID != nil {
		currentLectureID = *progress.CurrentLectureID
	}

	result, err := db.ExecContext(ctx, query, progress.StudentID, progress.CourseID, currentLectureID, progress.TotalLectures)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.New(apperrors.ErrDuplicateEnrollment, "student already enrolled")
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	progress.ID = int(id)

	if len(progress.LecturesProgress) == 0 {
		return nil
	}

	// Build placeholders and args for batch insert
	placeholders := make([]string, len(progress.LecturesProgress))
	args := []any{}
	for i, lp := range progress.LecturesProgress {
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, progress.ID, lp.LectureID, lp.Completed, lp.BestScore)
	}

	entriesQuery := fmt.Sprintf(`
		INSERT INTO lecture_progress (progress_id, lecture_id, completed, best_score)
		VALUES %s
	`, strings.Join(placeholders, ","))

	if _, err := db.ExecContext(ctx, entriesQuery, args...); err != nil {
		return fmt.Errorf("failed to create lecture progress: %w", err)
	}

	return nil
}

// CompleteLecture marks the lecture entry of a progress record as completed
//
// Returns true only for the call that flipped the entry; an entry that is already completed keeps its completedAt.
func (r *progressRepository) CompleteLecture(ctx context.Context, progressID, lectureID int, completedAt time.Time) (bool, error) {
	query := `
		UPDATE lecture_progress
		SET completed = 1, completed_at = ?
		WHERE progress_id = ? AND lecture_id = ? AND completed = 0
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, completedAt, progressID, lectureID)
	if err != nil {
		return false, fmt.Errorf("failed to complete lecture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// SetCurrentLecture moves the current lecture pointer of a progress record
func (r *progressRepository) SetCurrentLecture(ctx context.Context, progressID, lectureID int) error {
	query := `UPDATE progress SET current_lecture_id = ? WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, lectureID, progressID); err != nil {
		return fmt.Errorf("failed to set current lecture: %w", err)
	}

	return nil
}

// AddQuizAttempt appends an attempt to the history of a lecture entry
func (r *progressRepository) AddQuizAttempt(ctx context.Context, lectureProgressID int, attempt models.QuizAttempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode quiz attempt answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (lecture_progress_id, answers, score, passed, attempted_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, lectureProgressID, answers, attempt.Score, attempt.Passed, attempt.AttemptedAt); err != nil {
		return fmt.Errorf("failed to add quiz attempt: %w", err)
	}

	return nil
}

// RaiseBestScore sets the best score of a lecture entry to score when score is higher
func (r *progressRepository) RaiseBestScore(ctx context.Context, lectureProgressID, score int) error {
	query := `UPDATE lecture_progress SET best_score = GREATEST(best_score, ?) WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, score, lectureProgressID); err != nil {
		return fmt.Errorf("failed to update best score: %w", err)
	}

	return nil
}

// AddLectureToCourse adds an incomplete entry for a new lecture to every progress record of the course
// and increments their lecture count. Records without a current lecture are pointed at the new lecture.
//
// Returns the number of progress records updated.
func (r *progressRepository) AddLectureToCourse(ctx context.Context, courseID, lectureID int) (int64, error) {
	db := conn(ctx, r.db)

	insertQuery := `
		INSERT INTO lecture_progress (progress_id, lecture_id, completed, best_score)
		SELECT id, ?, 0, 0
		FROM progress
		WHERE course_id = ?
	`
	result, err := db.ExecContext(ctx, insertQuery, lectureID, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to add lecture progress: %w", err)
	}

	countQuery := `UPDATE progress SET total_lectures = total_lectures + 1 WHERE course_id = ?`
	if _, err := db.ExecContext(ctx, countQuery, courseID); err != nil {
		return 0, fmt.Errorf("failed to increment progress lecture count: %w", err)
	}

	currentQuery := `UPDATE progress SET current_lecture_id = ? WHERE course_id = ? AND current_lecture_id IS NULL`
	if _, err := db.ExecContext(ctx, currentQuery, lectureID, courseID); err != nil {
		return 0, fmt.Errorf("failed to set current lecture: %w", err)
	}

	added, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return added, nil
}

// RemoveLectureFromCourse removes the entries of a lecture from every progress record of the course
// and decrements their lecture count. Records pointing at the lecture are moved to replacementID (nil clears the pointer).
func (r *progressRepository) RemoveLectureFromCourse(ctx context.Context, courseID, lectureID int, replacementID *int) error {
	db := conn(ctx, r.db)

	countQuery := `
		UPDATE progress p
		SET p.total_lectures = p.total_lectures - 1
		WHERE p.course_id = ?
			AND EXISTS (SELECT 1 FROM lecture_progress lp WHERE lp.progress_id = p.id AND lp.lecture_id = ?)
	`
	if _, err := db.ExecContext(ctx, countQuery, courseID, lectureID); err != nil {
		return fmt.Errorf("failed to decrement progress lecture count: %w", err)
	}

	var replacement any
	if replacementID != nil {
		replacement = *replacementID
	}
	currentQuery := `UPDATE progress SET current_lecture_id = ? WHERE course_id = ? AND current_lecture_id = ?`
	if _, err := db.ExecContext(ctx, currentQuery, replacement, courseID, lectureID); err != nil {
		return fmt.Errorf("failed to move current lecture: %w", err)
	}

	deleteQuery := `
		DELETE lp FROM lecture_progress lp
		INNER JOIN progress p ON p.id = lp.progress_id
		WHERE p.course_id = ? AND lp.lecture_id = ?
	`
	if _, err := db.ExecContext(ctx, deleteQuery, courseID, lectureID); err != nil {
		return fmt.Errorf("failed to remove lecture progress: %w", err)
	}

	return nil
}

// DeleteByCourseID deletes every progress record of a course, lecture entries and attempts included
func (r *progressRepository) DeleteByCourseID(ctx context.Context, courseID int) error {
	query := `DELETE FROM progress WHERE course_id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("failed to delete course progress: %w", err)
	}

	return nil
}
