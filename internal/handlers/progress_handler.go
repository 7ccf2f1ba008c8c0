package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// ProgressService is the interface that wraps methods for student progression
type ProgressService interface {
	// CompleteReading marks a reading lecture as completed and advances the current lecture
	//
	// "ctx" is the context for the request.
	// "lectureID" is the ID of the reading lecture.
	// "studentID" is the ID of the calling student.
	//
	// Completing an already completed lecture changes nothing.
	// Returns the progress snapshot and an error if any.
	CompleteReading(ctx context.Context, lectureID, studentID int) (*models.CompletionResult, error)
	// GetCourseProgress retrieves the progress report of a student in a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "studentID" is the ID of the calling student.
	//
	// Returns the progress report and an error if any.
	GetCourseProgress(ctx context.Context, courseID, studentID int) (*models.CourseProgressResponse, error)
}

// QuizService is the interface that wraps the quiz submission operation
type QuizService interface {
	// SubmitQuiz grades a quiz submission and records the attempt
	//
	// "ctx" is the context for the request.
	// "lectureID" is the ID of the quiz lecture.
	// "studentID" is the ID of the calling student.
	// "req" holds the answers ordered like the questions.
	//
	// A passing attempt completes the lecture.
	// Returns the grading result and an error if any.
	SubmitQuiz(ctx context.Context, lectureID, studentID int, req *models.SubmitQuizRequest) (*models.QuizResult, error)
}

// ProgressHandler handles HTTP requests for student progression
type ProgressHandler struct {
	BaseHandler
	progressService ProgressService
	quizService     QuizService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(base BaseHandler, progressService ProgressService, quizService QuizService) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     base,
		progressService: progressService,
		quizService:     quizService,
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, auth AuthFunc) {
	authenticated := r.With(auth)

	authenticated.Get("/courses/{id}/progress", h.GetCourseProgress)
	authenticated.Post("/lectures/{id}/complete", h.CompleteReading)
	authenticated.Post("/lectures/{id}/quiz", h.SubmitQuiz)
}

// GetCourseProgress handles GET /courses/{id}/progress
// @Summary Get course progress
// @Description Get the progress snapshot, current lecture and per-lecture state of the authenticated student
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseProgressResponse
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id}/progress [get]
func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.progressService.GetCourseProgress(r.Context(), courseID, user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "get course progress")
		return
	}

	h.respondJSON(w, http.StatusOK, progress)
}

// CompleteReading handles POST /lectures/{id}/complete
// @Summary Complete a reading lecture
// @Description Mark a reading lecture as completed and unlock the next lecture
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} models.CompletionResult
// @Failure 400 {object} map[string]string "Not a reading lecture"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lectures/{id}/complete [post]
func (h *ProgressHandler) CompleteReading(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	lectureID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.progressService.CompleteReading(r.Context(), lectureID, user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err, "complete lecture")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// SubmitQuiz handles POST /lectures/{id}/quiz
// @Summary Submit a quiz
// @Description Grade quiz answers given in question order. A score at or above the passing score completes the lecture.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param request body models.SubmitQuizRequest true "Quiz answers"
// @Success 200 {object} models.QuizResult
// @Failure 400 {object} map[string]string "Invalid submission or not a quiz lecture"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lectures/{id}/quiz [post]
func (h *ProgressHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	lectureID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SubmitQuizRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.quizService.SubmitQuiz(r.Context(), lectureID, user.UserID, &req)
	if err != nil {
		h.respondServiceError(w, r, err, "submit quiz")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
