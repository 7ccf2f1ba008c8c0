package services

import (
	"context"

	"github.com/coursehub/backend/internal/models"
	"go.uber.org/zap"
)

type enrollmentService struct {
	tx           Transactor
	courseRepo   CourseRepository
	lectureRepo  LectureRepository
	progressRepo ProgressRepository
	logger       *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	tx Transactor,
	courseRepo CourseRepository,
	lectureRepo LectureRepository,
	progressRepo ProgressRepository,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		tx:           tx,
		courseRepo:   courseRepo,
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// Enroll enrolls a student in a course
//
// The student is added to the enrolled set and a progress record with one incomplete entry per
// lecture is created in one transaction. The current lecture is the first lecture by order.
func (s *enrollmentService) Enroll(ctx context.Context, courseID, studentID int) (*models.EnrollmentResult, error) {
	var progress *models.Progress
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.courseRepo.LockByID(ctx, courseID); err != nil {
			return err
		}
		if err := s.courseRepo.AddStudent(ctx, courseID, studentID); err != nil {
			return err
		}

		lectures, err := s.lectureRepo.GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}

		progress = models.NewProgress(studentID, courseID, lectures)
		return s.progressRepo.Create(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student enrolled",
		zap.Int("course_id", courseID),
		zap.Int("student_id", studentID),
		zap.Int("total_lectures", progress.TotalLectures),
	)

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &models.EnrollmentResult{
		Message:  "Enrolled successfully",
		Course:   course,
		Progress: progress.Snapshot(),
	}, nil
}
