package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number of a unique key violation
const mysqlDuplicateEntry = 1062

const courseColumns = `c.id, c.title, c.description, c.instructor_id, c.total_lectures, c.is_published, c.category, c.thumbnail, c.created_at, c.updated_at`

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.InstructorID,
		&course.TotalLectures,
		&course.IsPublished,
		&course.Category,
		&course.Thumbnail,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	course.Lectures = []int{}
	course.EnrolledStudents = []int{}
	return course, err
}

// GetByID retrieves a course with its ordered lecture ids and its enrolled students
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = ? LIMIT 1`

	course, err := scanCourse(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	courses := []models.Course{course}
	if err := r.attachRelations(ctx, courses); err != nil {
		return nil, err
	}

	return &courses[0], nil
}

// LockByID locks the course row until the surrounding transaction ends
//
// Structural changes of a course (lecture add/remove, enrollment, deletion) take this lock first,
// so they are applied one at a time per course.
func (r *courseRepository) LockByID(ctx context.Context, id int) error {
	query := `SELECT id FROM courses WHERE id = ? FOR UPDATE`

	var lockedID int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.New(apperrors.ErrNotFound, "course not found")
	}
	if err != nil {
		return fmt.Errorf("failed to lock course: %w", err)
	}

	return nil
}

// GetInstructorID retrieves the owner of a course
func (r *courseRepository) GetInstructorID(ctx context.Context, id int) (int, error) {
	query := `SELECT instructor_id FROM courses WHERE id = ? LIMIT 1`

	var instructorID int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&instructorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.New(apperrors.ErrNotFound, "course not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get course instructor: %w", err)
	}

	return instructorID, nil
}

// GetAll retrieves a page of courses matching the filter and the total number of matches
//
// "filter.Search" is matched case-insensitively against the title.
// "filter.Page" starts from 1.
func (r *courseRepository) GetAll(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var whereParts []string
	var args []any

	if filter.Search != "" {
		whereParts = append(whereParts, "LOWER(c.title) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Search))+"%")
	}
	if filter.Category != "" {
		whereParts = append(whereParts, "c.category = ?")
		args = append(args, filter.Category)
	}

	var whereClause string
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM courses c %s`, whereClause)
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM courses c
		%s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ? OFFSET ?
	`, courseColumns, whereClause)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	courses, err := r.queryCourses(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// GetByInstructor retrieves all courses owned by an instructor
func (r *courseRepository) GetByInstructor(ctx context.Context, instructorID int) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		WHERE c.instructor_id = ?
		ORDER BY c.created_at DESC, c.id DESC
	`
	return r.queryCourses(ctx, query, instructorID)
}

// GetByStudent retrieves all courses a student is enrolled in
func (r *courseRepository) GetByStudent(ctx context.Context, studentID int) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		INNER JOIN course_students cs ON cs.course_id = c.id
		WHERE cs.student_id = ?
		ORDER BY cs.enrolled_at DESC, c.id DESC
	`
	return r.queryCourses(ctx, query, studentID)
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, instructor_id, total_lectures, is_published, category, thumbnail)
		VALUES (?, ?, ?, 0, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.InstructorID,
		course.IsPublished,
		course.Category,
		course.Thumbnail,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	course.TotalLectures = 0
	course.Lectures = []int{}
	course.EnrolledStudents = []int{}
	return nil
}

// Update updates the descriptive fields of a course
//
// Owner, lecture list, enrolled set and lecture count are never written here.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = ?, description = ?, category = ?, thumbnail = ?, is_published = ?
		WHERE id = ?
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.Category,
		course.Thumbnail,
		course.IsPublished,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// Delete deletes a course by ID
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courses WHERE id = ?`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "course not found")
	}

	return nil
}

// AddStudent adds a student to the enrolled set of a course
func (r *courseRepository) AddStudent(ctx context.Context, courseID, studentID int) error {
	query := `INSERT INTO course_students (course_id, student_id) VALUES (?, ?)`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, courseID, studentID); err != nil {
		if isDuplicateEntry(err) {
			return apperrors.New(apperrors.ErrDuplicateEnrollment, "student already enrolled")
		}
		return fmt.Errorf("failed to add student to course: %w", err)
	}

	return nil
}

// RemoveStudents empties the enrolled set of a course
func (r *courseRepository) RemoveStudents(ctx context.Context, courseID int) error {
	query := `DELETE FROM course_students WHERE course_id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("failed to remove course students: %w", err)
	}

	return nil
}

// SyncLectureCount recomputes the denormalized lecture count of a course from its lectures
func (r *courseRepository) SyncLectureCount(ctx context.Context, courseID int) error {
	query := `
		UPDATE courses
		SET total_lectures = (SELECT COUNT(*) FROM lectures WHERE course_id = ?)
		WHERE id = ?
	`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, courseID, courseID); err != nil {
		return fmt.Errorf("failed to sync course lecture count: %w", err)
	}

	return nil
}

func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachRelations(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

// attachRelations loads lecture ids (by order) and enrolled students for the given courses
func (r *courseRepository) attachRelations(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	index := make(map[int]int, len(courses))
	placeholders := make([]string, len(courses))
	args := make([]any, len(courses))
	for i, course := range courses {
		index[course.ID] = i
		placeholders[i] = "?"
		args[i] = course.ID
	}
	in := strings.Join(placeholders, ",")

	lecturesQuery := fmt.Sprintf(`
		SELECT course_id, id
		FROM lectures
		WHERE course_id IN (%s)
		ORDER BY course_id, `+"`order`", in)
	err := r.collectPairs(ctx, lecturesQuery, args, func(courseID, lectureID int) {
		c := &courses[index[courseID]]
		c.Lectures = append(c.Lectures, lectureID)
	})
	if err != nil {
		return fmt.Errorf("failed to load course lectures: %w", err)
	}

	studentsQuery := fmt.Sprintf(`
		SELECT course_id, student_id
		FROM course_students
		WHERE course_id IN (%s)
		ORDER BY course_id, enrolled_at, student_id`, in)
	err = r.collectPairs(ctx, studentsQuery, args, func(courseID, studentID int) {
		c := &courses[index[courseID]]
		c.EnrolledStudents = append(c.EnrolledStudents, studentID)
	})
	if err != nil {
		return fmt.Errorf("failed to load course students: %w", err)
	}

	return nil
}

func (r *courseRepository) collectPairs(ctx context.Context, query string, args []any, add func(courseID, id int)) error {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, id int
		if err := rows.Scan(&courseID, &id); err != nil {
			return err
		}
		add(courseID, id)
	}

	return rows.Err()
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
