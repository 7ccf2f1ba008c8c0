package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// CourseService is the interface that wraps methods for course management
type CourseService interface {
	// CreateCourse creates a course owned by the instructor
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the calling instructor.
	// "req" is the request to create a course.
	//
	// Returns the created course and an error if any.
	CreateCourse(ctx context.Context, instructorID int, req *models.CreateCourseRequest) (*models.Course, error)
	// GetCourse retrieves a course and whether the caller is enrolled in it
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "userID" is the ID of the caller.
	//
	// Returns the course detail and an error if any.
	GetCourse(ctx context.Context, courseID, userID int) (*models.CourseDetailResponse, error)
	// ListCourses retrieves a page of courses
	//
	// "ctx" is the context for the request.
	// "filter" holds the title search, category and pagination.
	//
	// Returns the page of courses and an error if any.
	ListCourses(ctx context.Context, filter models.CourseFilter) (*models.CourseListResponse, error)
	// UpdateCourse updates a course owned by the instructor
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the calling instructor.
	// "req" is the request to update a course.
	//
	// Returns the updated course and an error if any.
	UpdateCourse(ctx context.Context, courseID, instructorID int, req *models.UpdateCourseRequest) (*models.Course, error)
	// DeleteCourse deletes a course owned by the instructor together with its lectures and progress
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the calling instructor.
	//
	// Returns an error if any.
	DeleteCourse(ctx context.Context, courseID, instructorID int) error
	// ListInstructorCourses retrieves the courses owned by the instructor
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the calling instructor.
	//
	// Returns the courses and an error if any.
	ListInstructorCourses(ctx context.Context, instructorID int) ([]models.Course, error)
	// ListStudentCourses retrieves the courses the student is enrolled in with progress snapshots
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the calling student.
	//
	// Returns the courses split by completion and an error if any.
	ListStudentCourses(ctx context.Context, studentID int) (*models.StudentCoursesResponse, error)
}

// EnrollmentService is the interface that wraps the enrollment operation
type EnrollmentService interface {
	// Enroll adds the student to the course and creates the progress record
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "studentID" is the ID of the calling student.
	//
	// Returns the course with the enrolled set, the progress snapshot and an error if any.
	Enroll(ctx context.Context, courseID, studentID int) (*models.EnrollmentResult, error)
}

// CourseHandler handles HTTP requests for courses
type CourseHandler struct {
	BaseHandler
	courseService     CourseService
	enrollmentService EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(base BaseHandler, courseService CourseService, enrollmentService EnrollmentService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       base,
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, auth AuthFunc) {
	instructor := r.With(auth, middleware.RoleMiddleware(models.RoleInstructor))
	authenticated := r.With(auth)

	r.Get("/courses", h.ListCourses)
	instructor.Post("/courses", h.CreateCourse)
	instructor.Get("/courses/instructor/my-courses", h.ListInstructorCourses)
	authenticated.Get("/courses/student/my-courses", h.ListStudentCourses)
	authenticated.Get("/courses/{id}", h.GetCourse)
	instructor.Put("/courses/{id}", h.UpdateCourse)
	instructor.Delete("/courses/{id}", h.DeleteCourse)
	authenticated.Post("/courses/{id}/enroll", h.Enroll)
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Get a page of courses with optional title search and category filter
// @Tags courses
// @Produce json
// @Param search query string false "Case-insensitive title search"
// @Param category query string false "Category"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} models.CourseListResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.CourseFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
	}
	if p, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = l
	}

	courses, err := h.courseService.ListCourses(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "list courses")
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /courses
// @Summary Create a course
// @Description Create a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course creation request"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), user.UserID, &req)
	if err != nil {
		h.respondServiceError(w, r, err, "create course")
		return
	}

	h.respondJSON(w, http.StatusCreated, course)
}

// ListInstructorCourses handles GET /courses/instructor/my-courses
// @Summary List my courses as instructor
// @Description Get all courses owned by the authenticated instructor
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Course
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/instructor/my-courses [get]
func (h *CourseHandler) ListInstructorCourses(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	courses, err := h.courseService.ListInstructorCourses(r.Context(), user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "list instructor courses")
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// ListStudentCourses handles GET /courses/student/my-courses
// @Summary List my courses as student
// @Description Get the courses the authenticated student is enrolled in, split into in-progress and completed
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.StudentCoursesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/student/my-courses [get]
func (h *CourseHandler) ListStudentCourses(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	courses, err := h.courseService.ListStudentCourses(r.Context(), user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "list student courses")
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{id}
// @Summary Get a course
// @Description Get a course and whether the caller is enrolled in it
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetailResponse
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID, user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "get course")
		return
	}

	h.respondJSON(w, http.StatusOK, course)
}

// UpdateCourse handles PUT /courses/{id}
// @Summary Update a course
// @Description Update the descriptive fields of a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Course update request"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateCourseRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, user.UserID, &req)
	if err != nil {
		h.respondServiceError(w, r, err, "update course")
		return
	}

	h.respondJSON(w, http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/{id}
// @Summary Delete a course
// @Description Delete a course owned by the authenticated instructor with its lectures and student progress
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID, user.UserID); err != nil {
		h.respondServiceError(w, r, err, "delete course")
		return
	}

	h.respondJSON(w, http.StatusOK, messageResponse{Message: "Course deleted successfully"})
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll in a course
// @Description Enroll the authenticated student and create the progress record
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.EnrollmentResult
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 409 {object} map[string]string "Already enrolled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.enrollmentService.Enroll(r.Context(), courseID, user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "enroll")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
