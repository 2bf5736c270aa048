package http

import (
	"errors"
	"fmt"
	"net/http"

	"intellilearn-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	AuthUsecase         domain.AuthUsecase
	UserUsecase         domain.UserUsecase
	CourseUsecase       domain.CourseUsecase
	ProgressUsecase     domain.ProgressUsecase
	QuizUsecase         domain.QuizUsecase
	AssignmentUsecase   domain.AssignmentUsecase
	SubmissionUsecase   domain.SubmissionUsecase
	PaymentUsecase      domain.PaymentUsecase
	ReviewUsecase       domain.ReviewUsecase
	BadgeUsecase        domain.BadgeUsecase
	CertificateUsecase  domain.CertificateUsecase
	DiscussionUsecase   domain.DiscussionUsecase
	AnnouncementUsecase domain.AnnouncementUsecase
	AttendanceUsecase   domain.AttendanceUsecase
	NotificationUsecase domain.NotificationUsecase
	ReportUsecase       domain.ReportUsecase
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string)
		for _, f := range ve {
			fields[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"success": false, "message": "Validation failed", "details": fields}
	}
	return gin.H{"success": false, "message": "Invalid request: " + err.Error()}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondErr(c *gin.Context, err error) {
	c.JSON(domain.StatusOf(err), gin.H{"success": false, "message": domain.MessageOf(err)})
}

func getUserID(c *gin.Context) (primitive.ObjectID, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in token")
	}
	return userID.(primitive.ObjectID), nil
}

func hexID(value, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidation("invalid " + name)
	}
	return id, nil
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, domain.NewValidation("invalid " + name)
	}
	return id, nil
}

// ========== AUTH HANDLERS ==========

func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	result, err := h.AuthUsecase.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	result, err := h.AuthUsecase.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	user, err := h.AuthUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	user, err := h.AuthUsecase.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, user)
}

// ========== USER HANDLERS (admin) ==========

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserUsecase.List(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, users, len(users))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	user, err := h.UserUsecase.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	user, err := h.UserUsecase.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.UserUsecase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "User deleted successfully")
}
