package http

import (
	"net/http"
	"time"

	"intellilearn-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ========== REVIEW HANDLERS ==========

func (h *Handler) CreateReview(c *gin.Context) {
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

	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	review, err := h.ReviewUsecase.Create(c.Request.Context(), userID, courseID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, review)
}

func (h *Handler) UpdateReview(c *gin.Context) {
	reviewID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	review, err := h.ReviewUsecase.Update(c.Request.Context(), actor(c), reviewID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, review)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	reviewID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.ReviewUsecase.Delete(c.Request.Context(), actor(c), reviewID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Review deleted successfully")
}

func (h *Handler) ListCourseReviews(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	reviews, err := h.ReviewUsecase.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, reviews, len(reviews))
}

// ========== BADGE HANDLERS ==========

func (h *Handler) CreateBadge(c *gin.Context) {
	var req domain.BadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	badge, err := h.BadgeUsecase.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, badge)
}

func (h *Handler) UpdateBadge(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.BadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	badge, err := h.BadgeUsecase.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, badge)
}

func (h *Handler) DeleteBadge(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.BadgeUsecase.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Badge deleted successfully")
}

func (h *Handler) ListBadges(c *gin.Context) {
	badges, err := h.BadgeUsecase.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, badges, len(badges))
}

func (h *Handler) GetBadge(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	badge, err := h.BadgeUsecase.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, badge)
}

func (h *Handler) AwardBadge(c *gin.Context) {
	userID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}
	badgeID, err := paramID(c, "badgeId")
	if err != nil {
		respondErr(c, err)
		return
	}

	achievement, err := h.BadgeUsecase.Award(c.Request.Context(), userID, badgeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, achievement)
}

func (h *Handler) ListUserAchievements(c *gin.Context) {
	userID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	achievements, err := h.BadgeUsecase.ListMyAchievements(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, achievements, len(achievements))
}

func (h *Handler) ListMyAchievements(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	achievements, err := h.BadgeUsecase.ListMyAchievements(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, achievements, len(achievements))
}

// ========== CERTIFICATE HANDLERS ==========

func (h *Handler) IssueCertificate(c *gin.Context) {
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

	cert, err := h.CertificateUsecase.Issue(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, cert)
}

func (h *Handler) ListMyCertificates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	certs, err := h.CertificateUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, certs, len(certs))
}

func (h *Handler) ListCourseCertificates(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	certs, err := h.CertificateUsecase.ListByCourse(c.Request.Context(), actor(c), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, certs, len(certs))
}

// VerifyCertificate is public, for employers checking a printed id.
func (h *Handler) VerifyCertificate(c *gin.Context) {
	cert, err := h.CertificateUsecase.Verify(c.Request.Context(), c.Param("certificateId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, cert)
}

func (h *Handler) DownloadCertificate(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	pdf, filename, err := h.CertificateUsecase.RenderPDF(c.Request.Context(), actor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ========== DISCUSSION HANDLERS ==========

func (h *Handler) CreateDiscussion(c *gin.Context) {
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

	var req domain.DiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	discussion, err := h.DiscussionUsecase.Create(c.Request.Context(), userID, courseID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, discussion)
}

func (h *Handler) ListCourseDiscussions(c *gin.Context) {
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

	discussions, err := h.DiscussionUsecase.ListByCourse(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, discussions, len(discussions))
}

func (h *Handler) ReplyToDiscussion(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	discussionID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	discussion, err := h.DiscussionUsecase.Reply(c.Request.Context(), userID, discussionID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, discussion)
}

func (h *Handler) RemoveDiscussionReply(c *gin.Context) {
	discussionID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}
	replyID, err := paramID(c, "replyId")
	if err != nil {
		respondErr(c, err)
		return
	}

	discussion, err := h.DiscussionUsecase.RemoveReply(c.Request.Context(), actor(c), discussionID, replyID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, discussion)
}

func (h *Handler) DeleteDiscussion(c *gin.Context) {
	discussionID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.DiscussionUsecase.Delete(c.Request.Context(), actor(c), discussionID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Discussion deleted successfully")
}

// ========== ANNOUNCEMENT HANDLERS ==========

func (h *Handler) CreateAnnouncement(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	announcement, err := h.AnnouncementUsecase.Create(c.Request.Context(), actor(c), courseID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, announcement)
}

func (h *Handler) ListCourseAnnouncements(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	announcements, err := h.AnnouncementUsecase.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, announcements, len(announcements))
}

func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req domain.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	announcement, err := h.AnnouncementUsecase.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, announcement)
}

func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.AnnouncementUsecase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Announcement deleted successfully")
}

// ========== ATTENDANCE HANDLERS ==========

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req domain.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	record, err := h.AttendanceUsecase.Mark(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, record)
}

func (h *Handler) ListCourseAttendance(c *gin.Context) {
	courseID, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondErr(c, domain.NewValidation("invalid date, expected YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	records, err := h.AttendanceUsecase.ListByCourse(c.Request.Context(), actor(c), courseID, date)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, records, len(records))
}

func (h *Handler) MyAttendanceSummary(c *gin.Context) {
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

	summary, err := h.AttendanceUsecase.MySummary(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, summary)
}

// ========== NOTIFICATION HANDLERS ==========

func (h *Handler) ListMyNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	notifications, unread, err := h.NotificationUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
		"count":   len(notifications),
		"unread":  unread,
	})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.NotificationUsecase.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Notification marked as read")
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	if err := h.NotificationUsecase.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "All notifications marked as read")
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.NotificationUsecase.Delete(c.Request.Context(), userID, id); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Notification deleted")
}

// ========== REPORT HANDLERS (admin) ==========

func (h *Handler) OverviewReport(c *gin.Context) {
	report, err := h.ReportUsecase.Overview(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, report)
}

func (h *Handler) CoursePerformanceReport(c *gin.Context) {
	report, err := h.ReportUsecase.CoursePerformance(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, report, len(report))
}

func (h *Handler) UserActivityReport(c *gin.Context) {
	report, err := h.ReportUsecase.UserActivity(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, report, len(report))
}

func (h *Handler) FinancialReport(c *gin.Context) {
	report, err := h.ReportUsecase.Financial(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, report)
}
