package services

import (
	"context"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// ProgressRepository defines methods for progress data access
type ProgressRepository interface {
	// GetByStudentAndCourse retrieves the progress of a student in a course with its lecture entries and quiz attempts
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "courseID" is the ID of the course.
	//
	// Returns the progress and an error if any.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Progress, error)
	// GetSnapshotsByStudent retrieves the progress snapshots of a student keyed by course ID
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	//
	// Returns a map of snapshots and an error if any.
	GetSnapshotsByStudent(ctx context.Context, studentID int) (map[int]models.ProgressSnapshot, error)
	// Create creates a progress record with its lecture entries
	//
	// "ctx" is the context for the request.
	// "progress" is the progress to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, progress *models.Progress) error
	// CompleteLecture marks a lecture entry completed if it is not completed yet
	//
	// "ctx" is the context for the request.
	// "progressID" is the ID of the progress record.
	// "lectureID" is the ID of the lecture.
	// "completedAt" is the completion time.
	//
	// Returns true if the entry was changed by this call and an error if any.
	CompleteLecture(ctx context.Context, progressID, lectureID int, completedAt time.Time) (bool, error)
	// SetCurrentLecture moves the current lecture pointer
	//
	// "ctx" is the context for the request.
	// "progressID" is the ID of the progress record.
	// "lectureID" is the ID of the new current lecture.
	//
	// Returns an error if any.
	SetCurrentLecture(ctx context.Context, progressID, lectureID int) error
	// AddQuizAttempt appends a quiz attempt to a lecture entry
	//
	// "ctx" is the context for the request.
	// "lectureProgressID" is the ID of the lecture entry.
	// "attempt" is the attempt to append.
	//
	// Returns an error if any.
	AddQuizAttempt(ctx context.Context, lectureProgressID int, attempt models.QuizAttempt) error
	// RaiseBestScore raises the best score of a lecture entry to score if it is higher
	//
	// "ctx" is the context for the request.
	// "lectureProgressID" is the ID of the lecture entry.
	// "score" is the new score.
	//
	// Returns an error if any.
	RaiseBestScore(ctx context.Context, lectureProgressID, score int) error
	// AddLectureToCourse adds an incomplete entry for a lecture to every progress record of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "lectureID" is the ID of the new lecture.
	//
	// Returns the number of updated progress records and an error if any.
	AddLectureToCourse(ctx context.Context, courseID, lectureID int) (int64, error)
	// RemoveLectureFromCourse removes the entries of a lecture from every progress record of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "lectureID" is the ID of the removed lecture.
	// "replacementID" is the new current lecture for records pointing at the removed one (nil clears the pointer).
	//
	// Returns an error if any.
	RemoveLectureFromCourse(ctx context.Context, courseID, lectureID int, replacementID *int) error
	// DeleteByCourseID deletes every progress record of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	DeleteByCourseID(ctx context.Context, courseID int) error
}

type progressService struct {
	tx           Transactor
	courseRepo   CourseRepository
	lectureRepo  LectureRepository
	progressRepo ProgressRepository
}

// NewProgressService creates a new progress service
func NewProgressService(
	tx Transactor,
	courseRepo CourseRepository,
	lectureRepo LectureRepository,
	progressRepo ProgressRepository,
) *progressService {
	return &progressService{
		tx:           tx,
		courseRepo:   courseRepo,
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
	}
}

// loadProgress retrieves the progress of a student, a missing record means the student is not enrolled
func loadProgress(ctx context.Context, progressRepo ProgressRepository, studentID, courseID int) (*models.Progress, error) {
	progress, err := progressRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if isNotFound(err) {
		return nil, apperrors.New(apperrors.ErrNotEnrolled, "not enrolled in this course")
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// completeLecture completes the lecture entry and moves the current lecture pointer to the
// lecture that follows it by order. The pointer is left as is when the entry was already completed
// or the lecture is the last one.
//
// "ctx" should carry a transaction.
func completeLecture(ctx context.Context, lectureRepo LectureRepository, progressRepo ProgressRepository, progress *models.Progress, lecture *models.Lecture) error {
	completed, err := progressRepo.CompleteLecture(ctx, progress.ID, lecture.ID, time.Now())
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}

	lectures, err := lectureRepo.GetByCourseID(ctx, lecture.CourseID)
	if err != nil {
		return err
	}

	next := models.NextLecture(lectures, lecture.Order)
	if next == nil {
		return nil
	}
	return progressRepo.SetCurrentLecture(ctx, progress.ID, next.ID)
}

// GetLecture retrieves a lecture for a user
//
// Instructors may only view lectures of their own courses and always get the full lecture.
// Students must be enrolled and must have completed every lecture ordered before it;
// an unfinished quiz is returned without correct answers and explanations.
func (s *progressService) GetLecture(ctx context.Context, lectureID int, user models.Identity) (*models.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleInstructor {
		if err := ensureOwner(ctx, s.courseRepo, lecture.CourseID, user.UserID); err != nil {
			return nil, err
		}
		return lecture, nil
	}

	var progress *models.Progress
	var lectures []models.Lecture

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		progress, err = loadProgress(gctx, s.progressRepo, user.UserID, lecture.CourseID)
		return err
	})
	g.Go(func() error {
		var err error
		lectures, err = s.lectureRepo.GetByCourseID(gctx, lecture.CourseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lp := progress.LectureProgress(lecture.ID)
	if lp == nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "lecture not found in progress")
	}

	if !progress.IsUnlocked(lectures, lecture.ID) {
		return nil, apperrors.New(apperrors.ErrLecturesLocked, "complete previous lectures first")
	}

	if lecture.Type == models.LectureTypeQuiz && !lp.Completed {
		return lecture.Sanitized(), nil
	}

	return lecture, nil
}

// CompleteReading marks a reading lecture completed for a student
//
// Completing an already completed lecture changes nothing.
func (s *progressService) CompleteReading(ctx context.Context, lectureID, studentID int) (*models.CompletionResult, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if lecture.Type != models.LectureTypeReading {
		return nil, apperrors.New(apperrors.ErrTypeMismatch, "this is not a reading lecture")
	}

	progress, err := loadProgress(ctx, s.progressRepo, studentID, lecture.CourseID)
	if err != nil {
		return nil, err
	}

	lp := progress.LectureProgress(lecture.ID)
	if lp == nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "lecture not found in progress")
	}

	if !lp.Completed {
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			return completeLecture(ctx, s.lectureRepo, s.progressRepo, progress, lecture)
		})
		if err != nil {
			return nil, err
		}
		lp.Completed = true
	}

	return &models.CompletionResult{
		Message:  "Lecture completed",
		Progress: progress.Snapshot(),
	}, nil
}

// GetCourseLectures retrieves the navigation list of a course
//
// Students must be enrolled and get the completion and accessibility of every lecture.
// Instructors must own the course.
func (s *progressService) GetCourseLectures(ctx context.Context, courseID int, user models.Identity) ([]models.LectureListItem, error) {
	if user.Role == models.RoleInstructor {
		if err := ensureOwner(ctx, s.courseRepo, courseID, user.UserID); err != nil {
			return nil, err
		}
	} else if _, err := s.courseRepo.GetInstructorID(ctx, courseID); err != nil {
		return nil, err
	}

	lectures, err := s.lectureRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	items := make([]models.LectureListItem, len(lectures))
	for i, l := range lectures {
		items[i] = models.LectureListItem{ID: l.ID, Title: l.Title, Type: l.Type, Order: l.Order}
	}

	if user.Role == models.RoleInstructor {
		return items, nil
	}

	progress, err := loadProgress(ctx, s.progressRepo, user.UserID, courseID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		completed := progress.IsCompleted(items[i].ID)
		isCurrent := progress.CurrentLectureID != nil && *progress.CurrentLectureID == items[i].ID
		accessible := completed || isCurrent || progress.IsUnlocked(lectures, items[i].ID)
		items[i].Completed = &completed
		items[i].IsAccessible = &accessible
	}

	return items, nil
}

// GetCourseProgress retrieves the progress report of a student in a course
func (s *progressService) GetCourseProgress(ctx context.Context, courseID, studentID int) (*models.CourseProgressResponse, error) {
	var progress *models.Progress
	var lectures []models.Lecture

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		progress, err = loadProgress(gctx, s.progressRepo, studentID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		lectures, err = s.lectureRepo.GetByCourseID(gctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := []models.LectureProgressSummary{}
	for _, l := range lectures {
		lp := progress.LectureProgress(l.ID)
		if lp == nil {
			continue
		}
		summaries = append(summaries, models.LectureProgressSummary{
			LectureID:   l.ID,
			Title:       l.Title,
			Type:        l.Type,
			Order:       l.Order,
			Completed:   lp.Completed,
			CompletedAt: lp.CompletedAt,
			BestScore:   lp.BestScore,
			Attempts:    len(lp.QuizAttempts),
		})
	}

	return &models.CourseProgressResponse{
		CourseID:         courseID,
		CurrentLectureID: progress.CurrentLectureID,
		Progress:         progress.Snapshot(),
		Lectures:         summaries,
	}, nil
}
