package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

const lectureColumns = `id, course_id, title, type, ` + "`order`" + `, content, content_link, file_url, file_name, questions, passing_score, duration, is_published, created_at, updated_at`

type lectureRepository struct {
	db *sql.DB
}

// NewLectureRepository creates a new lecture repository
func NewLectureRepository(db *sql.DB) *lectureRepository {
	return &lectureRepository{
		db: db,
	}
}

func scanLecture(row rowScanner) (*models.Lecture, error) {
	var lecture models.Lecture
	var content sql.NullString
	var questions []byte
	var duration sql.NullInt64

	err := row.Scan(
		&lecture.ID,
		&lecture.CourseID,
		&lecture.Title,
		&lecture.Type,
		&lecture.Order,
		&content,
		&lecture.ContentLink,
		&lecture.FileURL,
		&lecture.FileName,
		&questions,
		&lecture.PassingScore,
		&duration,
		&lecture.IsPublished,
		&lecture.CreatedAt,
		&lecture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lecture.Content = content.String
	if duration.Valid {
		d := int(duration.Int64)
		lecture.Duration = &d
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &lecture.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions of lecture %d: %w", lecture.ID, err)
		}
	}

	return &lecture, nil
}

// lectureArgs returns the values of the writable lecture columns
func lectureArgs(lecture *models.Lecture) ([]any, error) {
	var questions any
	if len(lecture.Questions) > 0 {
		encoded, err := json.Marshal(lecture.Questions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode questions: %w", err)
		}
		questions = encoded
	}

	var content any
	if lecture.Content != "" {
		content = lecture.Content
	}

	var duration any
	if lecture.Duration != nil {
		duration = *lecture.Duration
	}

	return []any{
		lecture.Title,
		lecture.Type,
		content,
		lecture.ContentLink,
		lecture.FileURL,
		lecture.FileName,
		questions,
		lecture.PassingScore,
		duration,
		lecture.IsPublished,
	}, nil
}

// GetByID retrieves a lecture by its ID
func (r *lectureRepository) GetByID(ctx context.Context, id int) (*models.Lecture, error) {
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE id = ? LIMIT 1`

	lecture, err := scanLecture(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "lecture not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lecture by id: %w", err)
	}

	return lecture, nil
}

// GetByCourseID retrieves all lectures of a course, sorted by order
func (r *lectureRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Lecture, error) {
	query := `
		SELECT ` + lectureColumns + `
		FROM lectures
		WHERE course_id = ?
		ORDER BY ` + "`order`"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lectures: %w", err)
	}
	defer rows.Close()

	lectures := []models.Lecture{}
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lecture: %w", err)
		}
		lectures = append(lectures, *lecture)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lectures, nil
}

// Create creates a new lecture
//
// "lecture.Order" must already be assigned, the (course, order) pair is unique.
func (r *lectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	args, err := lectureArgs(lecture)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lectures (course_id, ` + "`order`" + `, title, type, content, content_link, file_url, file_name, questions, passing_score, duration, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, append([]any{lecture.CourseID, lecture.Order}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to create lecture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lecture.ID = int(id)
	return nil
}

// Update replaces every field of a lecture except its course and order
func (r *lectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	args, err := lectureArgs(lecture)
	if err != nil {
		return err
	}

	query := `
		UPDATE lectures
		SET title = ?, type = ?, content = ?, content_link = ?, file_url = ?, file_name = ?,
			questions = ?, passing_score = ?, duration = ?, is_published = ?
		WHERE id = ?
	`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, append(args, lecture.ID)...); err != nil {
		return fmt.Errorf("failed to update lecture: %w", err)
	}

	return nil
}

// Delete deletes a lecture by ID
func (r *lectureRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM lectures WHERE id = ?`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "lecture not found")
	}

	return nil
}

// DeleteByCourseID deletes all lectures of a course
func (r *lectureRepository) DeleteByCourseID(ctx context.Context, courseID int) error {
	query := `DELETE FROM lectures WHERE course_id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("failed to delete course lectures: %w", err)
	}

	return nil
}
