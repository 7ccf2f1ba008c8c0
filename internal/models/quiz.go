package models

import (
	"time"

	"github.com/coursehub/backend/internal/apperrors"
)

// QuizAnswer represents the option a student picked for one question
type QuizAnswer struct {
	SelectedOption string `json:"selectedOption"`
}

// SubmitQuizRequest represents a quiz submission.
// Answers are matched to the lecture's questions by position.
type SubmitQuizRequest struct {
	Answers []QuizAnswer `json:"answers" validate:"required,min=1"`
}

// AttemptAnswer is an answer as stored in the attempt history
type AttemptAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	SelectedOption string `json:"selectedOption"`
}

// QuizAttempt is one historical grading result of a quiz lecture
type QuizAttempt struct {
	Answers     []AttemptAnswer `json:"answers"`
	Score       int             `json:"score"`
	Passed      bool            `json:"passed"`
	AttemptedAt time.Time       `json:"attemptedAt"`
}

// GradedAnswer is the grading result of one answer
type GradedAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	SelectedOption string `json:"selectedOption"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// QuizGrade is the outcome of grading a submission
type QuizGrade struct {
	Score          int
	Passed         bool
	CorrectAnswers int
	TotalQuestions int
	PassingScore   int
	GradedAnswers  []GradedAnswer
}

// QuizResult is returned after a quiz submission
type QuizResult struct {
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectAnswers int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	PassingScore   int              `json:"passingScore"`
	GradedAnswers  []GradedAnswer   `json:"gradedAnswers"`
	Message        string           `json:"message"`
	Progress       ProgressSnapshot `json:"progress"`
}

// GradeQuiz scores answers against questions by position.
// The number of answers must equal the number of questions.
func GradeQuiz(questions []Question, answers []QuizAnswer, passingScore int) (*QuizGrade, error) {
	if len(questions) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidSubmission, "quiz has no questions")
	}
	if len(answers) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidSubmission, "answers are required")
	}
	if len(answers) != len(questions) {
		return nil, apperrors.New(apperrors.ErrInvalidSubmission,
			"expected %d answers, got %d", len(questions), len(answers))
	}

	grade := &QuizGrade{
		TotalQuestions: len(questions),
		PassingScore:   passingScore,
		GradedAnswers:  make([]GradedAnswer, len(answers)),
	}
	for i, answer := range answers {
		correct := questions[i].CorrectAnswer
		isCorrect := answer.SelectedOption == correct
		if isCorrect {
			grade.CorrectAnswers++
		}
		grade.GradedAnswers[i] = GradedAnswer{
			QuestionIndex:  i,
			SelectedOption: answer.SelectedOption,
			CorrectAnswer:  correct,
			IsCorrect:      isCorrect,
		}
	}

	grade.Score = Percentage(grade.CorrectAnswers, grade.TotalQuestions)
	grade.Passed = grade.Score >= passingScore
	return grade, nil
}

// NewQuizAttempt builds the history record of a graded submission
func NewQuizAttempt(grade *QuizGrade, attemptedAt time.Time) QuizAttempt {
	answers := make([]AttemptAnswer, len(grade.GradedAnswers))
	for i, graded := range grade.GradedAnswers {
		answers[i] = AttemptAnswer{
			QuestionIndex:  graded.QuestionIndex,
			SelectedOption: graded.SelectedOption,
		}
	}
	return QuizAttempt{
		Answers:     answers,
		Score:       grade.Score,
		Passed:      grade.Passed,
		AttemptedAt: attemptedAt,
	}
}

// Percentage returns part/total*100 rounded half up, or 0 when total is 0
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
