package usecase

import (
	"context"
	"errors"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authUsecase struct {
	userRepo domain.UserRepository
	mailer   domain.Mailer
}

func NewAuthUsecase(ur domain.UserRepository, mailer domain.Mailer) domain.AuthUsecase {
	return &authUsecase{userRepo: ur, mailer: mailer}
}

func (uc *authUsecase) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	if existing, _ := uc.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, domain.NewConflict("email already registered")
	}
	if existing, _ := uc.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, domain.NewConflict("username already taken")
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStudent
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewInternal("hashing password", err)
	}

	user := &domain.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflict("email or username already registered")
		}
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, domain.NewInternal("signing token", err)
	}

	go uc.mailer.Send(context.Background(), user.Email, "Welcome to IntelliLearn",
		"Hi "+user.Name+", your account is ready. Happy learning!")

	return &domain.AuthResult{Token: token, User: user}, nil
}

func (uc *authUsecase) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewUnauthorized("invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, domain.NewUnauthorized("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, domain.NewInternal("signing token", err)
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (uc *authUsecase) Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (uc *authUsecase) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ========== USER MANAGEMENT (admin) ==========

type userUsecase struct {
	userRepo domain.UserRepository
}

func NewUserUsecase(ur domain.UserRepository) domain.UserUsecase {
	return &userUsecase{userRepo: ur}
}

func (uc *userUsecase) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return uc.userRepo.List(ctx, role)
}

func (uc *userUsecase) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (uc *userUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.UpdateUserRequest) (*domain.User, error) {
	if !actor.Can(domain.ActionManage, id) {
		return nil, domain.NewForbidden("not allowed to update this user")
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}

	// Only admins may change roles.
	if req.Role != "" && actor.Role != domain.RoleAdmin {
		return nil, domain.NewForbidden("only admins may change roles")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := uc.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflict("email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (uc *userUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	if actor.Role != domain.RoleAdmin {
		return domain.NewForbidden("only admins may delete users")
	}
	if actor.ID == id {
		return domain.NewValidation("cannot delete your own account")
	}
	err := uc.userRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound("user not found")
	}
	return err
}
