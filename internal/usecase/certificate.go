package usecase

import (
	"context"
	"errors"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/internal/service"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type certificateUsecase struct {
	certRepo     domain.CertificateRepository
	progressRepo domain.ProgressRepository
	userRepo     domain.UserRepository
	courseRepo   domain.CourseRepository
	renderer     *service.CertificateRenderer
}

func NewCertificateUsecase(
	cr domain.CertificateRepository,
	pr domain.ProgressRepository,
	ur domain.UserRepository,
	cour domain.CourseRepository,
	renderer *service.CertificateRenderer,
) domain.CertificateUsecase {
	return &certificateUsecase{
		certRepo:     cr,
		progressRepo: pr,
		userRepo:     ur,
		courseRepo:   cour,
		renderer:     renderer,
	}
}

// Issue grants a certificate once the course sits at 100%. Re-issuing
// returns the existing document.
func (uc *certificateUsecase) Issue(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Certificate, error) {
	if existing, err := uc.certRepo.GetByUserCourse(ctx, userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	progress, err := uc.progressRepo.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidation("course not completed yet")
		}
		return nil, err
	}
	if progress.OverallProgress < 100 {
		return nil, domain.NewValidation("course not completed yet")
	}

	cert := &domain.Certificate{
		User:          userID,
		Course:        courseID,
		CertificateID: "CERT-" + uuid.NewString(),
	}
	if err := uc.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return uc.certRepo.GetByUserCourse(ctx, userID, courseID)
		}
		return nil, err
	}
	return cert, nil
}

func (uc *certificateUsecase) ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.Certificate, error) {
	return uc.certRepo.ListByUser(ctx, userID)
}

func (uc *certificateUsecase) ListByCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) ([]domain.Certificate, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !actor.Can(domain.ActionManage, course.Instructor) {
		return nil, domain.NewForbidden("not the course instructor")
	}
	return uc.certRepo.ListByCourse(ctx, courseID)
}

// Verify is a public lookup by the printed certificate id.
func (uc *certificateUsecase) Verify(ctx context.Context, certificateID string) (*domain.Certificate, error) {
	cert, err := uc.certRepo.GetByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("certificate not found")
		}
		return nil, err
	}
	return cert, nil
}

func (uc *certificateUsecase) RenderPDF(ctx context.Context, actor domain.Actor, id primitive.ObjectID) ([]byte, string, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.NewNotFound("certificate not found")
		}
		return nil, "", err
	}
	if !actor.Can(domain.ActionView, cert.User) {
		return nil, "", domain.NewForbidden("not your certificate")
	}

	student, err := uc.userRepo.GetByID(ctx, cert.User)
	if err != nil {
		return nil, "", err
	}
	course, err := uc.courseRepo.GetByID(ctx, cert.Course)
	if err != nil {
		return nil, "", err
	}

	pdf, err := uc.renderer.Render(student.Name, course.Title, cert.CertificateID, cert.IssuedAt)
	if err != nil {
		return nil, "", domain.NewInternal("rendering certificate", err)
	}
	return pdf, cert.CertificateID + ".pdf", nil
}
