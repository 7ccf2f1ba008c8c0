package models

import (
	"time"
)

// LectureProgress is the completion state of one lecture within a progress record
type LectureProgress struct {
	ID           int           `json:"-"`
	LectureID    int           `json:"lectureId"`
	Completed    bool          `json:"completed"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
	BestScore    int           `json:"bestScore"`
	QuizAttempts []QuizAttempt `json:"quizAttempts"`
}

// Progress is the record of one student's advancement through one course
type Progress struct {
	ID               int               `json:"id"`
	StudentID        int               `json:"studentId"`
	CourseID         int               `json:"courseId"`
	CurrentLectureID *int              `json:"currentLecture"`
	TotalLectures    int               `json:"totalLectures"`
	LecturesProgress []LectureProgress `json:"lecturesProgress"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewProgress seeds the progress of a newly enrolled student.
// lectures must be sorted by order.
func NewProgress(studentID, courseID int, lectures []Lecture) *Progress {
	p := &Progress{
		StudentID:        studentID,
		CourseID:         courseID,
		TotalLectures:    len(lectures),
		LecturesProgress: make([]LectureProgress, len(lectures)),
	}
	for i, l := range lectures {
		p.LecturesProgress[i] = LectureProgress{LectureID: l.ID, QuizAttempts: []QuizAttempt{}}
	}
	if len(lectures) > 0 {
		first := lectures[0].ID
		p.CurrentLectureID = &first
	}
	return p
}

// CompletedLectures counts the completed lecture entries
func (p *Progress) CompletedLectures() int {
	completed := 0
	for _, lp := range p.LecturesProgress {
		if lp.Completed {
			completed++
		}
	}
	return completed
}

// ProgressPercentage returns the rounded completion percentage, 0 for a course without lectures
func (p *Progress) ProgressPercentage() int {
	return Percentage(p.CompletedLectures(), p.TotalLectures)
}

// Snapshot returns the aggregate progress values
func (p *Progress) Snapshot() ProgressSnapshot {
	return NewSnapshot(p.CompletedLectures(), p.TotalLectures)
}

// LectureProgress returns the entry of a lecture, or nil when the record has none
func (p *Progress) LectureProgress(lectureID int) *LectureProgress {
	for i := range p.LecturesProgress {
		if p.LecturesProgress[i].LectureID == lectureID {
			return &p.LecturesProgress[i]
		}
	}
	return nil
}

// IsCompleted reports whether the lecture entry exists and is completed
func (p *Progress) IsCompleted(lectureID int) bool {
	lp := p.LectureProgress(lectureID)
	return lp != nil && lp.Completed
}

// IsUnlocked reports whether every lecture ordered before lectureID is completed.
// lectures must be sorted by order. A lecture not in the list is never unlocked.
func (p *Progress) IsUnlocked(lectures []Lecture, lectureID int) bool {
	for _, l := range lectures {
		if l.ID == lectureID {
			return true
		}
		if !p.IsCompleted(l.ID) {
			return false
		}
	}
	return false
}

// ProgressSnapshot holds the derived progress values
type ProgressSnapshot struct {
	CompletedLectures  int `json:"completedLectures"`
	TotalLectures      int `json:"totalLectures"`
	ProgressPercentage int `json:"progressPercentage"`
}

// NewSnapshot builds a snapshot from the completed and total lecture counts
func NewSnapshot(completed, total int) ProgressSnapshot {
	return ProgressSnapshot{
		CompletedLectures:  completed,
		TotalLectures:      total,
		ProgressPercentage: Percentage(completed, total),
	}
}

// IsComplete reports whether every lecture of a non-empty course is completed
func (s ProgressSnapshot) IsComplete() bool {
	return s.TotalLectures > 0 && s.CompletedLectures >= s.TotalLectures
}

// LectureProgressSummary describes the state of one lecture in a progress report
type LectureProgressSummary struct {
	LectureID   int         `json:"lectureId"`
	Title       string      `json:"title"`
	Type        LectureType `json:"type"`
	Order       int         `json:"order"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	BestScore   int         `json:"bestScore"`
	Attempts    int         `json:"attempts"`
}

// CourseProgressResponse is the progress report of a student in a course
type CourseProgressResponse struct {
	CourseID         int                      `json:"courseId"`
	CurrentLectureID *int                     `json:"currentLecture"`
	Progress         ProgressSnapshot         `json:"progress"`
	Lectures         []LectureProgressSummary `json:"lectures"`
}

// CompletionResult is returned after completing a reading lecture
type CompletionResult struct {
	Message  string           `json:"message"`
	Progress ProgressSnapshot `json:"progress"`
}
