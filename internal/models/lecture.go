package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
)

// LectureType represents the type of a lecture
type LectureType string

const (
	LectureTypeReading LectureType = "reading"
	LectureTypeQuiz    LectureType = "quiz"
)

// DefaultPassingScore is the passing percentage of a quiz when none is provided
const DefaultPassingScore = 70

// Question represents a single choice question of a quiz lecture
type Question struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Lecture represents an ordered unit of course content
type Lecture struct {
	ID           int         `json:"id"`
	CourseID     int         `json:"courseId"`
	Title        string      `json:"title"`
	Type         LectureType `json:"type"`
	Order        int         `json:"order"`
	Content      string      `json:"content,omitempty"`
	ContentLink  string      `json:"contentLink,omitempty"`
	FileURL      string      `json:"fileUrl,omitempty"`
	FileName     string      `json:"fileName,omitempty"`
	Questions    []Question  `json:"questions,omitempty"`
	PassingScore int         `json:"passingScore"`
	Duration     *int        `json:"duration,omitempty"`
	IsPublished  bool        `json:"isPublished"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Validate checks the type-specific invariants of a lecture
func (l *Lecture) Validate() error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "title is required")
	}
	if l.PassingScore < 0 || l.PassingScore > 100 {
		return apperrors.New(apperrors.ErrInvalidInput, "passing score must be between 0 and 100")
	}
	if l.Duration != nil && *l.Duration < 0 {
		return apperrors.New(apperrors.ErrInvalidInput, "duration must not be negative")
	}

	switch l.Type {
	case LectureTypeReading:
		if strings.TrimSpace(l.Content) == "" && strings.TrimSpace(l.ContentLink) == "" && strings.TrimSpace(l.FileURL) == "" {
			return apperrors.New(apperrors.ErrInvalidInput, "reading lecture must have content, contentLink, or fileUrl")
		}
	case LectureTypeQuiz:
		if len(l.Questions) == 0 {
			return apperrors.New(apperrors.ErrInvalidInput, "quiz lecture must have at least one question")
		}
		for i, q := range l.Questions {
			if strings.TrimSpace(q.QuestionText) == "" {
				return apperrors.New(apperrors.ErrInvalidInput, "question %d: question text is required", i+1)
			}
			if len(q.Options) < 2 {
				return apperrors.New(apperrors.ErrInvalidInput, "question %d: a question must have at least 2 options", i+1)
			}
			if !slices.Contains(q.Options, q.CorrectAnswer) {
				return apperrors.New(apperrors.ErrInvalidInput, "question %d: correct answer must be one of the provided options", i+1)
			}
		}
	default:
		return apperrors.New(apperrors.ErrInvalidInput, "%q is not a valid lecture type, must be reading or quiz", l.Type)
	}
	return nil
}

// Sanitized returns a copy of the lecture without correct answers and explanations
func (l *Lecture) Sanitized() *Lecture {
	sanitized := *l
	sanitized.Questions = make([]Question, len(l.Questions))
	for i, q := range l.Questions {
		sanitized.Questions[i] = Question{
			QuestionText: q.QuestionText,
			Options:      slices.Clone(q.Options),
		}
	}
	return &sanitized
}

// NextLectureOrder returns the order for a lecture appended to the course.
// Orders are never reused, so deleted lectures leave gaps.
func NextLectureOrder(lectures []Lecture) int {
	next := 0
	for _, l := range lectures {
		if l.Order+1 > next {
			next = l.Order + 1
		}
	}
	return next
}

// NextLecture returns the lecture with the smallest order strictly greater than afterOrder
func NextLecture(lectures []Lecture, afterOrder int) *Lecture {
	var next *Lecture
	for i := range lectures {
		if lectures[i].Order > afterOrder && (next == nil || lectures[i].Order < next.Order) {
			next = &lectures[i]
		}
	}
	return next
}

// PreviousLecture returns the lecture with the greatest order strictly less than beforeOrder
func PreviousLecture(lectures []Lecture, beforeOrder int) *Lecture {
	var prev *Lecture
	for i := range lectures {
		if lectures[i].Order < beforeOrder && (prev == nil || lectures[i].Order > prev.Order) {
			prev = &lectures[i]
		}
	}
	return prev
}

// ParseQuestions decodes a question list sent either as a JSON array or as a string holding that array
func ParseQuestions(raw json.RawMessage) ([]Question, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, apperrors.New(apperrors.ErrInvalidInput, "invalid questions format")
		}
		raw = []byte(encoded)
		if strings.TrimSpace(encoded) == "" {
			return nil, nil
		}
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "invalid questions format")
	}
	return questions, nil
}

// LectureListItem represents a lecture in the course navigation list
type LectureListItem struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         LectureType `json:"type"`
	Order        int         `json:"order"`
	Completed    *bool       `json:"completed,omitempty"`
	IsAccessible *bool       `json:"isAccessible,omitempty"`
}

// CreateLectureRequest represents a request to create a lecture
type CreateLectureRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Type         LectureType     `json:"type" validate:"required,oneof=reading quiz"`
	Content      string          `json:"content,omitempty"`
	ContentLink  string          `json:"contentLink,omitempty" validate:"omitempty,url"`
	FileURL      string          `json:"fileUrl,omitempty" validate:"omitempty,url"`
	FileName     string          `json:"fileName,omitempty" validate:"omitempty,max=255"`
	Questions    json.RawMessage `json:"questions,omitempty" swaggertype:"array,object"`
	PassingScore *int            `json:"passingScore,omitempty" validate:"omitempty,min=0,max=100"`
	Duration     *int            `json:"duration,omitempty" validate:"omitempty,min=0"`
	IsPublished  *bool           `json:"isPublished,omitempty"`
}

// ToLecture builds an unsaved lecture from the request
func (r *CreateLectureRequest) ToLecture() (*Lecture, error) {
	questions, err := ParseQuestions(r.Questions)
	if err != nil {
		return nil, err
	}

	lecture := &Lecture{
		Title:        r.Title,
		Type:         r.Type,
		Content:      r.Content,
		ContentLink:  r.ContentLink,
		FileURL:      r.FileURL,
		FileName:     r.FileName,
		Questions:    questions,
		PassingScore: DefaultPassingScore,
		Duration:     r.Duration,
		IsPublished:  true,
	}
	if r.PassingScore != nil {
		lecture.PassingScore = *r.PassingScore
	}
	if r.IsPublished != nil {
		lecture.IsPublished = *r.IsPublished
	}
	return lecture, nil
}

// UpdateLectureRequest represents a request to update a lecture (partial update)
//
// The course and order of a lecture are immutable and have no field here.
type UpdateLectureRequest struct {
	Title        *string         `json:"title,omitempty" validate:"omitempty,max=255"`
	Type         *LectureType    `json:"type,omitempty" validate:"omitempty,oneof=reading quiz"`
	Content      *string         `json:"content,omitempty"`
	ContentLink  *string         `json:"contentLink,omitempty" validate:"omitempty,url"`
	FileURL      *string         `json:"fileUrl,omitempty" validate:"omitempty,url"`
	FileName     *string         `json:"fileName,omitempty" validate:"omitempty,max=255"`
	Questions    json.RawMessage `json:"questions,omitempty" swaggertype:"array,object"`
	PassingScore *int            `json:"passingScore,omitempty" validate:"omitempty,min=0,max=100"`
	Duration     *int            `json:"duration,omitempty" validate:"omitempty,min=0"`
	IsPublished  *bool           `json:"isPublished,omitempty"`
}

// Apply replaces the provided fields of the lecture
func (r *UpdateLectureRequest) Apply(l *Lecture) error {
	if r.Title != nil {
		l.Title = *r.Title
	}
	if r.Type != nil {
		l.Type = *r.Type
	}
	if r.Content != nil {
		l.Content = *r.Content
	}
	if r.ContentLink != nil {
		l.ContentLink = *r.ContentLink
	}
	if r.FileURL != nil {
		l.FileURL = *r.FileURL
	}
	if r.FileName != nil {
		l.FileName = *r.FileName
	}
	if len(bytes.TrimSpace(r.Questions)) > 0 {
		questions, err := ParseQuestions(r.Questions)
		if err != nil {
			return err
		}
		l.Questions = questions
	}
	if r.PassingScore != nil {
		l.PassingScore = *r.PassingScore
	}
	if r.Duration != nil {
		l.Duration = r.Duration
	}
	if r.IsPublished != nil {
		l.IsPublished = *r.IsPublished
	}
	return nil
}
