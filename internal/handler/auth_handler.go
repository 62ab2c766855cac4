package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvitly/gradewatch-backend/internal/middleware"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
	"github.com/zvitly/gradewatch-backend/internal/response"
	"github.com/zvitly/gradewatch-backend/internal/service"
	"github.com/zvitly/gradewatch-backend/internal/validator"
)

// WebLoginStore looks up students by dashboard login.
type WebLoginStore interface {
	FindByWebLogin(ctx context.Context, login string) (*model.Student, error)
}

// AuthHandler serves dashboard login.
type AuthHandler struct {
	auth     *service.AuthService
	students WebLoginStore
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, students WebLoginStore) *AuthHandler {
	return &AuthHandler{auth: auth, students: students}
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.students.FindByWebLogin(c.Request.Context(), req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if student.WebPassword == nil ||
		h.auth.CheckPassword(*student.WebPassword, req.Password) != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.auth.GenerateStudentToken(student.ID, student.GroupID, student.FullName)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:   token,
		Student: *student,
	})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"student_id": claims.StudentID,
		"group_id":   claims.GroupID,
		"full_name":  claims.FullName,
	})
}
