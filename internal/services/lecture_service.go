package services

import (
	"context"

	"github.com/coursehub/backend/internal/models"
	"go.uber.org/zap"
)

// LectureRepository defines methods for lecture data access
type LectureRepository interface {
	// GetByID retrieves a lecture by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lecture.
	//
	// Returns the lecture and an error if any.
	GetByID(ctx context.Context, id int) (*models.Lecture, error)
	// GetByCourseID retrieves the lectures of a course sorted by order
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a list of lectures and an error if any.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Lecture, error)
	// Create creates a new lecture
	//
	// "ctx" is the context for the request.
	// "lecture" is the lecture to create, its order must be assigned.
	//
	// Returns an error if any.
	Create(ctx context.Context, lecture *models.Lecture) error
	// Update updates every field of a lecture except its course and order
	//
	// "ctx" is the context for the request.
	// "lecture" is the lecture to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, lecture *models.Lecture) error
	// Delete deletes a lecture
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lecture.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// DeleteByCourseID deletes every lecture of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	DeleteByCourseID(ctx context.Context, courseID int) error
}

type lectureService struct {
	tx           Transactor
	courseRepo   CourseRepository
	lectureRepo  LectureRepository
	progressRepo ProgressRepository
	files        FileStore
	logger       *zap.Logger
}

// NewLectureService creates a new lecture service
func NewLectureService(
	tx Transactor,
	courseRepo CourseRepository,
	lectureRepo LectureRepository,
	progressRepo ProgressRepository,
	files FileStore,
	logger *zap.Logger,
) *lectureService {
	return &lectureService{
		tx:           tx,
		courseRepo:   courseRepo,
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
		files:        files,
		logger:       logger,
	}
}

// CreateLecture appends a lecture to a course owned by the instructor
//
// The lecture gets the next free order of the course. In the same transaction every enrolled
// student's progress receives an incomplete entry for it and its lecture count is incremented.
func (s *lectureService) CreateLecture(ctx context.Context, courseID, instructorID int, req *models.CreateLectureRequest) (*models.Lecture, error) {
	lecture, err := req.ToLecture()
	if err != nil {
		return nil, err
	}
	lecture.CourseID = courseID
	if err := lecture.Validate(); err != nil {
		return nil, err
	}

	if err := ensureOwner(ctx, s.courseRepo, courseID, instructorID); err != nil {
		return nil, err
	}

	var enrolled int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.courseRepo.LockByID(ctx, courseID); err != nil {
			return err
		}

		lectures, err := s.lectureRepo.GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		lecture.Order = models.NextLectureOrder(lectures)

		if err := s.lectureRepo.Create(ctx, lecture); err != nil {
			return err
		}
		if err := s.courseRepo.SyncLectureCount(ctx, courseID); err != nil {
			return err
		}

		enrolled, err = s.progressRepo.AddLectureToCourse(ctx, courseID, lecture.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lecture created",
		zap.Int("course_id", courseID),
		zap.Int("lecture_id", lecture.ID),
		zap.Int("order", lecture.Order),
		zap.Int64("progress_updated", enrolled),
	)

	return lecture, nil
}

// UpdateLecture updates a lecture of a course owned by the instructor
//
// Course and order cannot be changed. A replaced attached file is deleted on a best-effort basis.
func (s *lectureService) UpdateLecture(ctx context.Context, lectureID, instructorID int, req *models.UpdateLectureRequest) (*models.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	if err := ensureOwner(ctx, s.courseRepo, lecture.CourseID, instructorID); err != nil {
		return nil, err
	}

	previousFile := lecture.FileURL
	if err := req.Apply(lecture); err != nil {
		return nil, err
	}
	if err := lecture.Validate(); err != nil {
		return nil, err
	}

	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}

	if previousFile != "" && previousFile != lecture.FileURL {
		deleteFilesBestEffort(ctx, s.files, s.logger, []string{previousFile}, zap.Int("lecture_id", lectureID))
	}

	return lecture, nil
}

// DeleteLecture deletes a lecture of a course owned by the instructor
//
// Removing the lecture from the course, removing its entry from every progress record (with the
// lecture count decremented) and deleting the lecture itself happen in one transaction.
// Progress records pointing at the lecture move to the next lecture by order, or the previous one.
// The attached file is deleted after the commit on a best-effort basis.
func (s *lectureService) DeleteLecture(ctx context.Context, lectureID, instructorID int) error {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return err
	}

	if err := ensureOwner(ctx, s.courseRepo, lecture.CourseID, instructorID); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.courseRepo.LockByID(ctx, lecture.CourseID); err != nil {
			return err
		}

		lectures, err := s.lectureRepo.GetByCourseID(ctx, lecture.CourseID)
		if err != nil {
			return err
		}

		var replacementID *int
		if replacement := models.NextLecture(lectures, lecture.Order); replacement != nil {
			replacementID = &replacement.ID
		} else if replacement := models.PreviousLecture(lectures, lecture.Order); replacement != nil {
			replacementID = &replacement.ID
		}

		if err := s.progressRepo.RemoveLectureFromCourse(ctx, lecture.CourseID, lecture.ID, replacementID); err != nil {
			return err
		}
		if err := s.lectureRepo.Delete(ctx, lecture.ID); err != nil {
			return err
		}
		return s.courseRepo.SyncLectureCount(ctx, lecture.CourseID)
	})
	if err != nil {
		return err
	}

	if lecture.FileURL != "" {
		deleteFilesBestEffort(ctx, s.files, s.logger, []string{lecture.FileURL}, zap.Int("lecture_id", lectureID))
	}

	return nil
}
