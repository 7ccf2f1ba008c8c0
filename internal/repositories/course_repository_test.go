package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseRowColumns = []string{"id", "title", "description", "instructor_id", "total_lectures", "is_published", "category", "thumbnail", "created_at", "updated_at"}

// setupCourseTestRepository creates a course repository with a mock database
func setupCourseTestRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupTestDB(t)
	return NewCourseRepository(db), mock, cleanup
}

func courseRow(id int, title string, instructorID, totalLectures int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(courseRowColumns).
		AddRow(id, title, "Description", instructorID, totalLectures, true, "Programming", "", now, now)
}

func TestNewCourseRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseRepository_GetByID(t *testing.T) {
	tests := []struct {
		name             string
		id               int
		setupMock        func(sqlmock.Sqlmock)
		expectedError    error
		expectedLectures []int
		expectedStudents []int
	}{
		{
			name: "success with lectures and students",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses c WHERE c.id = \?`).
					WithArgs(1).
					WillReturnRows(courseRow(1, "Go Basics", 7, 2))
				mock.ExpectQuery(`(?s)SELECT course_id, id.*FROM lectures.*WHERE course_id IN \(\?\)`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "id"}).AddRow(1, 10).AddRow(1, 11))
				mock.ExpectQuery(`(?s)SELECT course_id, student_id.*FROM course_students.*WHERE course_id IN \(\?\)`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "student_id"}).AddRow(1, 100))
			},
			expectedLectures: []int{10, 11},
			expectedStudents: []int{100},
		},
		{
			name: "success empty course",
			id:   2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses c WHERE c.id = \?`).
					WithArgs(2).
					WillReturnRows(courseRow(2, "Empty", 7, 0))
				mock.ExpectQuery(`(?s)SELECT course_id, id.*FROM lectures`).
					WithArgs(2).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "id"}))
				mock.ExpectQuery(`(?s)SELECT course_id, student_id.*FROM course_students`).
					WithArgs(2).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "student_id"}))
			},
			expectedLectures: []int{},
			expectedStudents: []int{},
		},
		{
			name: "course not found",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses c WHERE c.id = \?`).
					WithArgs(999).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "database error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses c WHERE c.id = \?`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: apperrors.ErrInternal,
		},
		{
			name: "lectures query error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM courses c WHERE c.id = \?`).
					WithArgs(1).
					WillReturnRows(courseRow(1, "Go Basics", 7, 2))
				mock.ExpectQuery(`(?s)SELECT course_id, id.*FROM lectures`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: apperrors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, apperrors.Kind(err))
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, result.ID)
				assert.Equal(t, tt.expectedLectures, result.Lectures)
				assert.Equal(t, tt.expectedStudents, result.EnrolledStudents)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_LockByID(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM courses WHERE id = \? FOR UPDATE`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			},
		},
		{
			name: "course not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM courses WHERE id = \? FOR UPDATE`).
					WithArgs(1).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM courses WHERE id = \? FOR UPDATE`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: apperrors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.LockByID(context.Background(), 1)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, apperrors.Kind(err))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_GetInstructorID(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedID    int
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT instructor_id FROM courses WHERE id = \?`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"instructor_id"}).AddRow(7))
			},
			expectedID: 7,
		},
		{
			name: "course not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT instructor_id FROM courses WHERE id = \?`).
					WithArgs(1).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			id, err := repo.GetInstructorID(context.Background(), 1)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, apperrors.Kind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_GetAll(t *testing.T) {
	tests := []struct {
		name          string
		filter        models.CourseFilter
		setupMock     func(sqlmock.Sqlmock)
		expectedCount int
		expectedTotal int
		expectedError bool
	}{
		{
			name:   "success with search and category",
			filter: models.CourseFilter{Search: "Go_", Category: "Programming", Page: 2, Limit: 10},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses c WHERE LOWER\(c.title\) LIKE \? AND c.category = \?`).
					WithArgs(`%go\_%`, "Programming").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
				mock.ExpectQuery(`(?s)SELECT .*FROM courses c.*WHERE LOWER\(c.title\) LIKE \? AND c.category = \?.*LIMIT \? OFFSET \?`).
					WithArgs(`%go\_%`, "Programming", 10, 10).
					WillReturnRows(courseRow(3, "Go_Advanced", 7, 0))
				mock.ExpectQuery(`(?s)SELECT course_id, id.*FROM lectures`).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "id"}))
				mock.ExpectQuery(`(?s)SELECT course_id, student_id.*FROM course_students`).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"course_id", "student_id"}))
			},
			expectedCount: 1,
			expectedTotal: 11,
		},
		{
			name:   "success without filters and no rows",
			filter: models.CourseFilter{Page: 1, Limit: 10},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses c`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`(?s)SELECT .*FROM courses c.*LIMIT \? OFFSET \?`).
					WithArgs(10, 0).
					WillReturnRows(sqlmock.NewRows(courseRowColumns))
			},
			expectedCount: 0,
			expectedTotal: 0,
		},
		{
			name:   "count error",
			filter: models.CourseFilter{Page: 1, Limit: 10},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses c`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			courses, total, err := repo.GetAll(context.Background(), tt.filter)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, courses, tt.expectedCount)
				assert.Equal(t, tt.expectedTotal, total)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_GetByStudent(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .*FROM courses c.*INNER JOIN course_students cs.*WHERE cs.student_id = \?`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow(1, "Go Basics", "Description", 7, 1, true, "Programming", "", now, now).
			AddRow(2, "SQL", "Description", 8, 0, true, "Databases", "", now, now))
	mock.ExpectQuery(`(?s)SELECT course_id, id.*FROM lectures.*WHERE course_id IN \(\?,\?\)`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "id"}).AddRow(1, 10))
	mock.ExpectQuery(`(?s)SELECT course_id, student_id.*FROM course_students.*WHERE course_id IN \(\?,\?\)`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "student_id"}).AddRow(1, 100).AddRow(2, 100))

	courses, err := repo.GetByStudent(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, []int{10}, courses[0].Lectures)
	assert.Equal(t, []int{}, courses[1].Lectures)
	assert.Equal(t, []int{100}, courses[1].EnrolledStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		course        *models.Course
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name:   "success",
			course: &models.Course{Title: "Go Basics", Description: "Learn Go", InstructorID: 7, Category: "Programming", IsPublished: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`(?s)INSERT INTO courses.*VALUES`).
					WithArgs("Go Basics", "Learn Go", 7, true, "Programming", "").
					WillReturnResult(sqlmock.NewResult(5, 1))
			},
			expectedID: 5,
		},
		{
			name:   "database error",
			course: &models.Course{Title: "Go Basics", Description: "Learn Go", InstructorID: 7, Category: "General"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`(?s)INSERT INTO courses`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.course)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.course.ID)
				assert.Equal(t, 0, tt.course.TotalLectures)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Update(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	course := &models.Course{ID: 1, Title: "New", Description: "Desc", Category: "General", Thumbnail: "https://cdn/x.png", IsPublished: true}
	mock.ExpectExec(`(?s)UPDATE courses.*SET title = \?, description = \?, category = \?, thumbnail = \?, is_published = \?.*WHERE id = \?`).
		WithArgs("New", "Desc", "General", "https://cdn/x.png", true, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), course)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM courses WHERE id = \?`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "course not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM courses WHERE id = \?`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), 1)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, apperrors.Kind(err))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_AddStudent(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO course_students \(course_id, student_id\) VALUES \(\?, \?\)`).
					WithArgs(1, 100).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "already enrolled",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO course_students`).
					WithArgs(1, 100).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-100' for key 'PRIMARY'"})
			},
			expectedError: apperrors.ErrDuplicateEnrollment,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO course_students`).
					WithArgs(1, 100).
					WillReturnError(errors.New("database error"))
			},
			expectedError: apperrors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.AddStudent(context.Background(), 1, 100)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, apperrors.Kind(err))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_RemoveStudents(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM course_students WHERE course_id = \?`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.RemoveStudents(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_SyncLectureCount(t *testing.T) {
	repo, mock, cleanup := setupCourseTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`(?s)UPDATE courses.*SET total_lectures = \(SELECT COUNT\(\*\) FROM lectures WHERE course_id = \?\).*WHERE id = \?`).
		WithArgs(1, 1).
		WillReturnError(errors.New("database error"))

	err := repo.SyncLectureCount(context.Background(), 1)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sync course lecture count")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
