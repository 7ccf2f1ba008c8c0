package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// LectureService is the interface that wraps methods for lecture lifecycle management
type LectureService interface {
	// CreateLecture appends a lecture to a course owned by the instructor
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the calling instructor.
	// "req" is the request to create a lecture.
	//
	// Enrolled students get an incomplete progress entry for the new lecture.
	// Returns the created lecture and an error if any.
	CreateLecture(ctx context.Context, courseID, instructorID int, req *models.CreateLectureRequest) (*models.Lecture, error)
	// UpdateLecture updates a lecture of a course owned by the instructor
	//
	// "ctx" is the context for the request.
	// "lectureID" is the ID of the lecture.
	// "instructorID" is the ID of the calling instructor.
	// "req" is the request to update a lecture.
	//
	// Returns the updated lecture and an error if any.
	UpdateLecture(ctx context.Context, lectureID, instructorID int, req *models.UpdateLectureRequest) (*models.Lecture, error)
	// DeleteLecture deletes a lecture and removes it from every student progress
	//
	// "ctx" is the context for the request.
	// "lectureID" is the ID of the lecture.
	// "instructorID" is the ID of the calling instructor.
	//
	// Returns an error if any.
	DeleteLecture(ctx context.Context, lectureID, instructorID int) error
}

// LectureAccessService is the interface that wraps methods for reading lectures under the unlock rules
type LectureAccessService interface {
	// GetLecture retrieves a lecture for the caller
	//
	// "ctx" is the context for the request.
	// "lectureID" is the ID of the lecture.
	// "user" is the identity of the caller.
	//
	// Students get locked lectures rejected and unsolved quizzes without answers.
	// Returns the lecture and an error if any.
	GetLecture(ctx context.Context, lectureID int, user models.Identity) (*models.Lecture, error)
	// GetCourseLectures retrieves the navigation list of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "user" is the identity of the caller.
	//
	// Returns the lectures ordered by position and an error if any.
	GetCourseLectures(ctx context.Context, courseID int, user models.Identity) ([]models.LectureListItem, error)
}

// LectureHandler handles HTTP requests for lectures
type LectureHandler struct {
	BaseHandler
	lectureService LectureService
	accessService  LectureAccessService
}

// NewLectureHandler creates a new lecture handler
func NewLectureHandler(base BaseHandler, lectureService LectureService, accessService LectureAccessService) *LectureHandler {
	return &LectureHandler{
		BaseHandler:    base,
		lectureService: lectureService,
		accessService:  accessService,
	}
}

// RegisterRoutes registers all lecture handler routes
func (h *LectureHandler) RegisterRoutes(r chi.Router, auth AuthFunc) {
	instructor := r.With(auth, middleware.RoleMiddleware(models.RoleInstructor))
	authenticated := r.With(auth)

	authenticated.Get("/courses/{id}/lectures", h.GetCourseLectures)
	instructor.Post("/courses/{id}/lectures", h.CreateLecture)
	authenticated.Get("/lectures/{id}", h.GetLecture)
	instructor.Put("/lectures/{id}", h.UpdateLecture)
	instructor.Delete("/lectures/{id}", h.DeleteLecture)
}

// GetCourseLectures handles GET /courses/{id}/lectures
// @Summary Get course lectures
// @Description Get the ordered lecture list of a course. Students also get completion and accessibility flags.
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {array} models.LectureListItem
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled or not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id}/lectures [get]
func (h *LectureHandler) GetCourseLectures(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lectures, err := h.accessService.GetCourseLectures(r.Context(), courseID, user)
	if err != nil {
		h.respondServiceError(w, r, err, "get course lectures")
		return
	}

	h.respondJSON(w, http.StatusOK, lectures)
}

// CreateLecture handles POST /courses/{id}/lectures
// @Summary Create a lecture
// @Description Append a reading or quiz lecture to a course owned by the authenticated instructor
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.CreateLectureRequest true "Lecture creation request"
// @Success 201 {object} models.Lecture
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id}/lectures [post]
func (h *LectureHandler) CreateLecture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.CreateLectureRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lecture, err := h.lectureService.CreateLecture(r.Context(), courseID, user.UserID, &req)
	if err != nil {
		h.respondServiceError(w, r, err, "create lecture")
		return
	}

	h.respondJSON(w, http.StatusCreated, lecture)
}

// GetLecture handles GET /lectures/{id}
// @Summary Get a lecture
// @Description Get a lecture. Students can open completed lectures and the current one; unsolved quizzes are returned without answers.
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} models.Lecture
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Locked, not enrolled or not the owner"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lectures/{id} [get]
func (h *LectureHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	lectureID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lecture, err := h.accessService.GetLecture(r.Context(), lectureID, user)
	if err != nil {
		h.respondServiceError(w, r, err, "get lecture")
		return
	}

	h.respondJSON(w, http.StatusOK, lecture)
}

// UpdateLecture handles PUT /lectures/{id}
// @Summary Update a lecture
// @Description Update a lecture of a course owned by the authenticated instructor. Course and order cannot be changed.
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param request body models.UpdateLectureRequest true "Lecture update request"
// @Success 200 {object} models.Lecture
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lectures/{id} [put]
func (h *LectureHandler) UpdateLecture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	lectureID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateLectureRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lecture, err := h.lectureService.UpdateLecture(r.Context(), lectureID, user.UserID, &req)
	if err != nil {
		h.respondServiceError(w, r, err, "update lecture")
		return
	}

	h.respondJSON(w, http.StatusOK, lecture)
}

// DeleteLecture handles DELETE /lectures/{id}
// @Summary Delete a lecture
// @Description Delete a lecture and remove it from the progress of every enrolled student
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lectures/{id} [delete]
func (h *LectureHandler) DeleteLecture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}
	lectureID, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.lectureService.DeleteLecture(r.Context(), lectureID, user.UserID); err != nil {
		h.respondServiceError(w, r, err, "delete lecture")
		return
	}

	h.respondJSON(w, http.StatusOK, messageResponse{Message: "Lecture deleted successfully"})
}
