package models

import (
	"slices"
	"strings"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
)

// DefaultCategory is assigned to courses created without a category
const DefaultCategory = "General"

// Course represents a course owned by an instructor
type Course struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	InstructorID     int       `json:"instructorId"`
	Lectures         []int     `json:"lectures"`
	TotalLectures    int       `json:"totalLectures"`
	EnrolledStudents []int     `json:"enrolledStudents"`
	IsPublished      bool      `json:"isPublished"`
	Category         string    `json:"category"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsEnrolled reports whether a student is in the enrolled set of the course
func (c *Course) IsEnrolled(studentID int) bool {
	return slices.Contains(c.EnrolledStudents, studentID)
}

// Validate checks the course fields that are required on every save
func (c *Course) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	if c.Title == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "title is required")
	}
	if c.Description == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "description is required")
	}
	if strings.TrimSpace(c.Category) == "" {
		c.Category = DefaultCategory
	}
	return nil
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
	Thumbnail   string `json:"thumbnail,omitempty" validate:"omitempty,url"`
	IsPublished *bool  `json:"isPublished,omitempty"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
//
// Instructor, lecture list, enrolled set and lecture count cannot be changed through this request.
type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Thumbnail   *string `json:"thumbnail,omitempty" validate:"omitempty,url"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}

// Apply copies the provided fields onto the course
func (r *UpdateCourseRequest) Apply(c *Course) {
	if r.Title != nil {
		c.Title = *r.Title
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Category != nil {
		c.Category = *r.Category
	}
	if r.Thumbnail != nil {
		c.Thumbnail = *r.Thumbnail
	}
	if r.IsPublished != nil {
		c.IsPublished = *r.IsPublished
	}
}

// CourseFilter holds list filters and pagination for courses
type CourseFilter struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// Pagination describes a page of a list response
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// CourseListResponse represents a page of courses
type CourseListResponse struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// CourseDetailResponse represents a course together with the caller's enrollment status
type CourseDetailResponse struct {
	Course     *Course `json:"course"`
	IsEnrolled bool    `json:"isEnrolled"`
}

// StudentCourse represents an enrolled course with the student's progress
type StudentCourse struct {
	Course   Course           `json:"course"`
	Progress ProgressSnapshot `json:"progress"`
}

// StudentCoursesResponse splits a student's courses by completion
type StudentCoursesResponse struct {
	InProgress []StudentCourse `json:"inProgressCourses"`
	Completed  []StudentCourse `json:"completedCourses"`
}

// EnrollmentResult is returned after a successful enrollment
type EnrollmentResult struct {
	Message  string           `json:"message"`
	Course   *Course          `json:"course"`
	Progress ProgressSnapshot `json:"progress"`
}
