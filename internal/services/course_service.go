package services

import (
	"context"
	"errors"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// fileDeleteConcurrency limits parallel best-effort file deletions
	fileDeleteConcurrency = 4
)

// Transactor runs a function inside a single storage transaction
type Transactor interface {
	// WithinTx runs fn in a transaction
	//
	// "ctx" is the context for the request.
	// "fn" receives a context carrying the transaction, repository calls made with it join the transaction.
	//
	// Returns the error returned by fn, or a storage error. The transaction is committed only when fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// FileStore deletes uploaded files from the external file storage
type FileStore interface {
	// Delete deletes a file by its public URL
	//
	// "ctx" is the context for the request.
	// "fileURL" is the URL of the file.
	//
	// Returns an error if any.
	Delete(ctx context.Context, fileURL string) error
}

// CourseRepository defines methods for course data access
type CourseRepository interface {
	// GetByID retrieves a course by ID, including its lecture IDs (by order) and enrolled students
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// LockByID locks the course row until the transaction carried by ctx ends
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	LockByID(ctx context.Context, id int) error
	// GetInstructorID retrieves the ID of the instructor who owns a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the instructor ID and an error if any.
	GetInstructorID(ctx context.Context, id int) (int, error)
	// GetAll retrieves a page of courses
	//
	// "ctx" is the context for the request.
	// "filter" holds the search query, the category and the pagination.
	//
	// Returns a list of courses, the total number of matching courses and an error if any.
	GetAll(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	// GetByInstructor retrieves courses owned by an instructor
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the instructor.
	//
	// Returns a list of courses and an error if any.
	GetByInstructor(ctx context.Context, instructorID int) ([]models.Course, error)
	// GetByStudent retrieves courses a student is enrolled in
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	//
	// Returns a list of courses and an error if any.
	GetByStudent(ctx context.Context, studentID int) ([]models.Course, error)
	// Create creates a new course
	//
	// "ctx" is the context for the request.
	// "course" is the course to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// Update updates a course
	//
	// "ctx" is the context for the request.
	// "course" is the course to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, course *models.Course) error
	// Delete deletes a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// AddStudent adds a student to the enrolled set of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "studentID" is the ID of the student.
	//
	// Returns an error if any.
	AddStudent(ctx context.Context, courseID, studentID int) error
	// RemoveStudents empties the enrolled set of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	RemoveStudents(ctx context.Context, courseID int) error
	// SyncLectureCount recomputes the lecture count of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	SyncLectureCount(ctx context.Context, courseID int) error
}

type courseService struct {
	tx           Transactor
	courseRepo   CourseRepository
	lectureRepo  LectureRepository
	progressRepo ProgressRepository
	files        FileStore
	logger       *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	tx Transactor,
	courseRepo CourseRepository,
	lectureRepo LectureRepository,
	progressRepo ProgressRepository,
	files FileStore,
	logger *zap.Logger,
) *courseService {
	return &courseService{
		tx:           tx,
		courseRepo:   courseRepo,
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
		files:        files,
		logger:       logger,
	}
}

// ensureOwner fails with ErrForbidden unless the instructor owns the course
func ensureOwner(ctx context.Context, courseRepo CourseRepository, courseID, instructorID int) error {
	ownerID, err := courseRepo.GetInstructorID(ctx, courseID)
	if err != nil {
		return err
	}
	if ownerID != instructorID {
		return apperrors.New(apperrors.ErrForbidden, "you do not have rights to manage this course")
	}
	return nil
}

// CreateCourse creates a course owned by the instructor
func (s *courseService) CreateCourse(ctx context.Context, instructorID int, req *models.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		Category:     req.Category,
		Thumbnail:    req.Thumbnail,
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// GetCourse retrieves a course and whether the user is enrolled in it
func (s *courseService) GetCourse(ctx context.Context, courseID, userID int) (*models.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &models.CourseDetailResponse{
		Course:     course,
		IsEnrolled: course.IsEnrolled(userID),
	}, nil
}

// ListCourses retrieves a page of courses
//
// Page numbers start from 1, the page size defaults to 10 and is capped at 100.
func (s *courseService) ListCourses(ctx context.Context, filter models.CourseFilter) (*models.CourseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	courses, total, err := s.courseRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.CourseListResponse{
		Courses: courses,
		Pagination: models.Pagination{
			Total: total,
			Page:  filter.Page,
			Pages: (total + filter.Limit - 1) / filter.Limit,
		},
	}, nil
}

// UpdateCourse updates the descriptive fields of a course owned by the instructor
//
// A replaced thumbnail is deleted from the file store on a best-effort basis.
func (s *courseService) UpdateCourse(ctx context.Context, courseID, instructorID int, req *models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, apperrors.New(apperrors.ErrForbidden, "you do not have rights to manage this course")
	}

	previousThumbnail := course.Thumbnail
	req.Apply(course)
	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	if previousThumbnail != "" && previousThumbnail != course.Thumbnail {
		s.deleteFiles(ctx, courseID, []string{previousThumbnail})
	}

	return course, nil
}

// DeleteCourse deletes a course owned by the instructor together with its lectures,
// enrolled set and every progress record in one transaction.
// The thumbnail and lecture files are deleted afterwards on a best-effort basis.
func (s *courseService) DeleteCourse(ctx context.Context, courseID, instructorID int) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return apperrors.New(apperrors.ErrForbidden, "you do not have rights to manage this course")
	}

	var files []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.courseRepo.LockByID(ctx, courseID); err != nil {
			return err
		}

		lectures, err := s.lectureRepo.GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		for _, l := range lectures {
			if l.FileURL != "" {
				files = append(files, l.FileURL)
			}
		}

		if err := s.progressRepo.DeleteByCourseID(ctx, courseID); err != nil {
			return err
		}
		if err := s.courseRepo.RemoveStudents(ctx, courseID); err != nil {
			return err
		}
		if err := s.lectureRepo.DeleteByCourseID(ctx, courseID); err != nil {
			return err
		}
		return s.courseRepo.Delete(ctx, courseID)
	})
	if err != nil {
		return err
	}

	if course.Thumbnail != "" {
		files = append(files, course.Thumbnail)
	}
	s.deleteFiles(ctx, courseID, files)

	return nil
}

// ListInstructorCourses retrieves the courses owned by an instructor
func (s *courseService) ListInstructorCourses(ctx context.Context, instructorID int) ([]models.Course, error) {
	return s.courseRepo.GetByInstructor(ctx, instructorID)
}

// ListStudentCourses retrieves the courses a student is enrolled in with the student's progress,
// split into courses in progress and completed courses
func (s *courseService) ListStudentCourses(ctx context.Context, studentID int) (*models.StudentCoursesResponse, error) {
	var courses []models.Course
	var snapshots map[int]models.ProgressSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.courseRepo.GetByStudent(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.progressRepo.GetSnapshotsByStudent(gctx, studentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &models.StudentCoursesResponse{
		InProgress: []models.StudentCourse{},
		Completed:  []models.StudentCourse{},
	}
	for _, course := range courses {
		snapshot, ok := snapshots[course.ID]
		if !ok {
			snapshot = models.NewSnapshot(0, course.TotalLectures)
		}
		item := models.StudentCourse{Course: course, Progress: snapshot}
		if snapshot.IsComplete() {
			result.Completed = append(result.Completed, item)
		} else {
			result.InProgress = append(result.InProgress, item)
		}
	}

	return result, nil
}

// deleteFiles deletes files from the file store, failures are logged and ignored
func (s *courseService) deleteFiles(ctx context.Context, courseID int, files []string) {
	deleteFilesBestEffort(ctx, s.files, s.logger, files, zap.Int("course_id", courseID))
}

// deleteFilesBestEffort deletes files concurrently, logging failures at warn level
func deleteFilesBestEffort(ctx context.Context, files FileStore, logger *zap.Logger, urls []string, fields ...zap.Field) {
	if len(urls) == 0 {
		return
	}

	// Deletions are not cancelled with the request
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(fileDeleteConcurrency)
	for _, url := range urls {
		g.Go(func() error {
			if err := files.Delete(ctx, url); err != nil {
				logFields := append([]zap.Field{zap.String("file_url", url), zap.Error(err)}, fields...)
				logger.Warn("failed to delete file from storage", logFields...)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// isNotFound reports whether err is of the ErrNotFound kind
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
