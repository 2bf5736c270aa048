package http

import (
	"net/http"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ========== PROGRESS HANDLERS ==========

func (h *Handler) ToggleLessonProgress(c *gin.Context) {
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
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		respondErr(c, err)
		return
	}

	detail, err := h.ProgressUsecase.ToggleLesson(c.Request.Context(), userID, courseID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, detail)
}

func (h *Handler) GetMyProgress(c *gin.Context) {
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

	detail, err := h.ProgressUsecase.GetMine(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, detail)
}

func (h *Handler) ListMyProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	details, err := h.ProgressUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, details, len(details))
}

func (h *Handler) ListCourseProgress(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	details, err := h.ProgressUsecase.ListByCourse(c.Request.Context(), actor(c), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, details, len(details))
}

func (h *Handler) ListAllProgress(c *gin.Context) {
	details, err := h.ProgressUsecase.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, details, len(details))
}

// ========== QUIZ HANDLERS ==========

func (h *Handler) CreateQuiz(c *gin.Context) {
	var req domain.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	quiz, err := h.QuizUsecase.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, quiz)
}

func (h *Handler) UpdateQuiz(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	quiz, err := h.QuizUsecase.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, quiz)
}

func (h *Handler) DeleteQuiz(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.QuizUsecase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Quiz deleted successfully")
}

func (h *Handler) GetQuiz(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	quiz, err := h.QuizUsecase.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, quiz)
}

func (h *Handler) ListCourseQuizzes(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	quizzes, err := h.QuizUsecase.ListByCourse(c.Request.Context(), actor(c), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, quizzes, len(quizzes))
}

func (h *Handler) ListLessonQuizzes(c *gin.Context) {
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

	quizzes, err := h.QuizUsecase.ListByLesson(c.Request.Context(), actor(c), courseID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, quizzes, len(quizzes))
}

func (h *Handler) SubmitQuizAttempt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	quizID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	attempt, err := h.QuizUsecase.SubmitAttempt(c.Request.Context(), userID, quizID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, attempt)
}

func (h *Handler) ListMyQuizAttempts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	quizID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	attempts, err := h.QuizUsecase.ListAttempts(c.Request.Context(), userID, quizID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, attempts, len(attempts))
}

func (h *Handler) ListQuizAttempts(c *gin.Context) {
	quizID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	attempts, err := h.QuizUsecase.ListQuizAttempts(c.Request.Context(), actor(c), quizID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, attempts, len(attempts))
}

func (h *Handler) GetQuizAttempt(c *gin.Context) {
	quizID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}
	attemptID, err := paramID(c, "attemptId")
	if err != nil {
		respondErr(c, err)
		return
	}

	attempt, err := h.QuizUsecase.GetAttempt(c.Request.Context(), actor(c), quizID, attemptID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, attempt)
}

// ========== ASSIGNMENT HANDLERS (structured flow) ==========

func (h *Handler) CreateAssignment(c *gin.Context) {
	var req domain.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	assignment, err := h.AssignmentUsecase.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, assignment)
}

func (h *Handler) UpdateAssignment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	assignment, err := h.AssignmentUsecase.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, assignment)
}

func (h *Handler) DeleteAssignment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.AssignmentUsecase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Assignment deleted successfully")
}

func (h *Handler) ListCourseAssignments(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	assignments, err := h.AssignmentUsecase.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, assignments, len(assignments))
}

func (h *Handler) ListLessonAssignments(c *gin.Context) {
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

	assignments, err := h.AssignmentUsecase.ListByLesson(c.Request.Context(), courseID, lessonID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, assignments, len(assignments))
}

// SubmitAssignment accepts the work as a multipart file upload.
func (h *Handler) SubmitAssignment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	assignmentID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	fileURL, err := utils.HandleUpload(c, "file")
	if err != nil {
		respondErr(c, domain.NewValidation("file upload failed: "+err.Error()))
		return
	}
	fileName := ""
	if file, err := c.FormFile("file"); err == nil {
		fileName = file.Filename
	}

	submission, err := h.AssignmentUsecase.Submit(c.Request.Context(), userID, assignmentID, fileURL, fileName)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, submission)
}

func (h *Handler) GradeAssignmentSubmission(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	submission, err := h.AssignmentUsecase.Grade(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, submission)
}

func (h *Handler) ListAssignmentSubmissions(c *gin.Context) {
	assignmentID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	submissions, err := h.AssignmentUsecase.ListSubmissions(c.Request.Context(), actor(c), assignmentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, submissions, len(submissions))
}

func (h *Handler) GetMyAssignmentSubmission(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	assignmentID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	submission, err := h.AssignmentUsecase.GetMySubmission(c.Request.Context(), userID, assignmentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, submission)
}

// ========== SUBMISSION HANDLERS (free-text flow) ==========

func (h *Handler) SubmitWork(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	var req domain.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	submission, err := h.SubmissionUsecase.Submit(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, submission)
}

func (h *Handler) GradeSubmission(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	submission, err := h.SubmissionUsecase.Grade(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, submission)
}

func (h *Handler) ListCourseSubmissions(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	submissions, err := h.SubmissionUsecase.ListByCourse(c.Request.Context(), actor(c), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, submissions, len(submissions))
}

func (h *Handler) ListMySubmissions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	submissions, err := h.SubmissionUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, submissions, len(submissions))
}

func (h *Handler) MyCourseGrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		respondErr(c, err)
		return
	}

	submissions, err := h.SubmissionUsecase.MyGrades(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, submissions, len(submissions))
}

func (h *Handler) ListStudentCourseSubmissions(c *gin.Context) {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		respondErr(c, err)
		return
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		respondErr(c, err)
		return
	}

	submissions, err := h.SubmissionUsecase.ListByCourseStudent(c.Request.Context(), actor(c), courseID, studentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, submissions, len(submissions))
}
