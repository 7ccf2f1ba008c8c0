package services

import (
	"context"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
)

const (
	quizPassedMessage = "Quiz passed! Lecture completed."
	quizFailedMessage = "Quiz failed. Try again to unlock the next lecture."
)

type quizService struct {
	tx           Transactor
	lectureRepo  LectureRepository
	progressRepo ProgressRepository
}

// NewQuizService creates a new quiz service
func NewQuizService(tx Transactor, lectureRepo LectureRepository, progressRepo ProgressRepository) *quizService {
	return &quizService{
		tx:           tx,
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
	}
}

// SubmitQuiz grades a quiz submission of a student
//
// Answers are matched to questions by position. Every submission is recorded as an attempt and
// the best score never decreases. A passing submission completes the lecture and moves the
// current lecture forward, a failing one leaves completion untouched.
func (s *quizService) SubmitQuiz(ctx context.Context, lectureID, studentID int, req *models.SubmitQuizRequest) (*models.QuizResult, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if lecture.Type != models.LectureTypeQuiz {
		return nil, apperrors.New(apperrors.ErrTypeMismatch, "this is not a quiz lecture")
	}

	progress, err := loadProgress(ctx, s.progressRepo, studentID, lecture.CourseID)
	if err != nil {
		return nil, err
	}

	lp := progress.LectureProgress(lecture.ID)
	if lp == nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "lecture not found in progress")
	}

	grade, err := models.GradeQuiz(lecture.Questions, req.Answers, lecture.PassingScore)
	if err != nil {
		return nil, err
	}
	attempt := models.NewQuizAttempt(grade, time.Now())

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.progressRepo.AddQuizAttempt(ctx, lp.ID, attempt); err != nil {
			return err
		}
		if err := s.progressRepo.RaiseBestScore(ctx, lp.ID, grade.Score); err != nil {
			return err
		}
		if grade.Passed && !lp.Completed {
			return completeLecture(ctx, s.lectureRepo, s.progressRepo, progress, lecture)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lp.QuizAttempts = append(lp.QuizAttempts, attempt)
	lp.BestScore = max(lp.BestScore, grade.Score)
	if grade.Passed {
		lp.Completed = true
	}

	message := quizFailedMessage
	if grade.Passed {
		message = quizPassedMessage
	}

	return &models.QuizResult{
		Score:          grade.Score,
		Passed:         grade.Passed,
		CorrectAnswers: grade.CorrectAnswers,
		TotalQuestions: grade.TotalQuestions,
		PassingScore:   grade.PassingScore,
		GradedAnswers:  grade.GradedAnswers,
		Message:        message,
		Progress:       progress.Snapshot(),
	}, nil
}
