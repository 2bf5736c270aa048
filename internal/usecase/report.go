package usecase

import (
	"context"
	"math"
	"time"

	"intellilearn-backend/internal/domain"
)

type reportUsecase struct {
	userRepo       domain.UserRepository
	courseRepo     domain.CourseRepository
	submissionRepo domain.SubmissionRepository
	paymentRepo    domain.PaymentRepository
}

func NewReportUsecase(
	ur domain.UserRepository,
	cr domain.CourseRepository,
	sr domain.SubmissionRepository,
	pr domain.PaymentRepository,
) domain.ReportUsecase {
	return &reportUsecase{userRepo: ur, courseRepo: cr, submissionRepo: sr, paymentRepo: pr}
}

const recentWindow = 30 * 24 * time.Hour

func (uc *reportUsecase) Overview(ctx context.Context) (*domain.OverviewReport, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := uc.courseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	published, err := uc.courseRepo.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	submissions, err := uc.submissionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := uc.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-recentWindow)
	recentUsers, err := uc.userRepo.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	recentCourses, err := uc.courseRepo.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	recentSubmissions, err := uc.submissionRepo.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	return &domain.OverviewReport{
		Totals: domain.ReportTotals{
			Users:            users,
			Courses:          courses,
			PublishedCourses: published,
			Submissions:      submissions,
		},
		UserRoles: roles,
		RecentActivity: domain.ReportRecentActivity{
			Users:       recentUsers,
			Courses:     recentCourses,
			Submissions: recentSubmissions,
		},
	}, nil
}

func (uc *reportUsecase) CoursePerformance(ctx context.Context) ([]domain.CoursePerformance, error) {
	courses, err := uc.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]domain.CoursePerformance, 0, len(courses))
	for _, course := range courses {
		avg, err := uc.submissionRepo.AverageGradeByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		enrolled := len(course.StudentsEnrolled)
		report = append(report, domain.CoursePerformance{
			Course:          course,
			EnrollmentCount: enrolled,
			AverageGrade:    math.Round(avg*10) / 10,
			Revenue:         course.Price * float64(enrolled),
		})
	}
	return report, nil
}

func (uc *reportUsecase) UserActivity(ctx context.Context) ([]domain.UserActivity, error) {
	users, err := uc.userRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	report := make([]domain.UserActivity, 0, len(users))
	for _, user := range users {
		activity := domain.UserActivity{
			ID:              user.ID,
			Name:            user.Name,
			Email:           user.Email,
			Role:            user.Role,
			CreatedAt:       user.CreatedAt,
			EnrolledCourses: int64(len(user.CoursesEnrolled)),
		}
		switch user.Role {
		case domain.RoleStudent:
			count, err := uc.submissionRepo.CountByStudent(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			activity.Submissions = count
		case domain.RoleInstructor:
			taught, err := uc.courseRepo.ListByInstructor(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			activity.CoursesTaught = int64(len(taught))
		}
		report = append(report, activity)
	}
	return report, nil
}

func (uc *reportUsecase) Financial(ctx context.Context) (*domain.FinancialReport, error) {
	courses, err := uc.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.FinancialReport{CourseRevenue: []domain.CourseRevenue{}}
	for _, course := range courses {
		if course.Price <= 0 {
			report.TotalFreeCourses++
			continue
		}
		report.TotalPaidCourses++
		enrolled := len(course.StudentsEnrolled)
		revenue := course.Price * float64(enrolled)
		report.TotalRevenue += revenue
		report.CourseRevenue = append(report.CourseRevenue, domain.CourseRevenue{
			Title:           course.Title,
			Price:           course.Price,
			EnrollmentCount: enrolled,
			Revenue:         revenue,
		})
	}
	return report, nil
}
