package user

import (
	"context"
	"errors"
	"fmt"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"shopSense/pkg/utils"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type userService struct {
	userRepo UserRepository
	validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
	}
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	// Check if email already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName: user.FullName,
		Email:    user.Email,
		Password: passwordHash,
		Role:     RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	logger.Info("user registered", "user_id", newUser.ID)

	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("User not found on login", err)
		return "", domain.User{}, errors.New("invalid email or password")
	}

	if ok := utils.CheckPassword(password, user.Password); !ok {
		logger.Error("Wrong password on login")
		return "", domain.User{}, errors.New("invalid email or password")
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	return token, user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	if id == 0 {
		return domain.User{}, errors.New("invalid user id")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find user by id", err)
		return domain.User{}, err
	}

	return user, nil
}
