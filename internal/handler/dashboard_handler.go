package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvitly/gradewatch-backend/internal/middleware"
	"github.com/zvitly/gradewatch-backend/internal/response"
	"github.com/zvitly/gradewatch-backend/internal/service"
)

// DashboardHandler serves the student dashboard: subject list and per-subject
// grade rows, scoped by the JWT's student identity.
type DashboardHandler struct {
	grades *service.GradesService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(grades *service.GradesService) *DashboardHandler {
	return &DashboardHandler{grades: grades}
}

// ListSubjects godoc
// GET /api/v1/dashboard/subjects
func (h *DashboardHandler) ListSubjects(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subjects, err := h.grades.Subjects(c.Request.Context(), claims.GroupID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// GetGrades godoc
// GET /api/v1/dashboard/grades/:subject
func (h *DashboardHandler) GetGrades(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subject := c.Param("subject")
	grades, err := h.grades.StudentGrades(c.Request.Context(), claims.GroupID, subject, claims.FullName)
	if err != nil {
		if errors.Is(err, service.ErrGradesNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrGradesNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}
