package http

import (
	"net/http"

	"intellilearn-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ========== COURSE HANDLERS ==========

func (h *Handler) CreateCourse(c *gin.Context) {
	var req domain.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course, err := h.CourseUsecase.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, course)
}

func (h *Handler) ListCourses(c *gin.Context) {
	filter := domain.CourseFilter{
		Category:      c.Query("category"),
		Level:         domain.Level(c.Query("level")),
		Search:        c.Query("search"),
		PublishedOnly: true,
	}
	courses, err := h.CourseUsecase.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, courses, len(courses))
}

func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.CourseUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course, err := h.CourseUsecase.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, course)
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.CourseUsecase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Course deleted successfully")
}

// ========== ENROLLMENT HANDLERS ==========

func (h *Handler) EnrollCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.CourseUsecase.Enroll(c.Request.Context(), userID, courseID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Enrolled successfully")
}

func (h *Handler) UnenrollCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.CourseUsecase.Unenroll(c.Request.Context(), userID, courseID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Unenrolled successfully")
}

func (h *Handler) ListEnrolledCourses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	courses, err := h.CourseUsecase.ListEnrolled(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, courses, len(courses))
}

func (h *Handler) ListTeachingCourses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	courses, err := h.CourseUsecase.ListTeaching(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, courses, len(courses))
}

// ========== LESSON HANDLERS ==========

func (h *Handler) AddLesson(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course, err := h.CourseUsecase.AddLesson(c.Request.Context(), actor(c), courseID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, course)
}

func (h *Handler) UpdateLesson(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course, err := h.CourseUsecase.UpdateLesson(c.Request.Context(), actor(c), courseID, lessonID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, course)
}

func (h *Handler) DeleteLesson(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		respondErr(c, err)
		return
	}

	course, err := h.CourseUsecase.DeleteLesson(c.Request.Context(), actor(c), courseID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, course)
}
