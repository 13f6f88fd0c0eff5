package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rashid54/recipe-app-api/internal/config"
	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// UserService handles account management operations.
type UserService struct {
	userRepo repository.UserRepository
	cfg      config.AuthConfig
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, cfg config.AuthConfig, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// bcryptCost resolves the configured work factor, falling back to the
// library default when unset.
func (s *UserService) bcryptCost() int {
	if s.cfg.BcryptCost > 0 {
		return s.cfg.BcryptCost
	}
	return bcrypt.DefaultCost
}

// CreateUserInput contains the data needed to register a new user.
type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// CreateUserOutput contains the result of registering a user.
type CreateUserOutput struct {
	User *domain.User
}

// Create registers a new user account.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	email := domain.NormalizeEmail(input.Email)

	if err := s.validateCreateInput(email, input.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check email existence")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrInternal)
	}

	user := domain.NewUser(email, string(passwordHash), input.Name)
	user.IsStaff = input.IsStaff
	user.IsSuperuser = input.IsSuperuser

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Bool("is_superuser", user.IsSuperuser).
		Msg("user created")

	return &CreateUserOutput{User: user}, nil
}

// Authenticate verifies a user's credentials and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Don't expose whether the email is registered.
			s.logger.Debug().Msg("unknown email during authentication")
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Int64("user_id", user.ID).Msg("invalid password during authentication")
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user authenticated")
	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return user, nil
}

// UpdateProfileInput contains the fields a user may change on their own
// account. Nil pointers leave the field untouched.
type UpdateProfileInput struct {
	UserID   int64
	Email    *string
	Password *string
	Name     *string
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, NewValidationError("email", "enter a valid email address")
		}
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to check email existence")
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if exists {
				return nil, domain.ErrUserAlreadyExists
			}
		}
		user.Email = email
	}

	if input.Password != nil {
		if len(*input.Password) < s.cfg.MinPasswordLength {
			return nil, NewValidationError("password",
				fmt.Sprintf("ensure this field has at least %d characters", s.cfg.MinPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost())
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, fmt.Errorf("%w: failed to hash password", ErrInternal)
		}
		user.PasswordHash = string(hash)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("profile updated")
	return user, nil
}

// validateCreateInput validates registration input.
func (s *UserService) validateCreateInput(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return NewValidationError("email", "enter a valid email address")
	}
	if len(password) < s.cfg.MinPasswordLength {
		return NewValidationError("password",
			fmt.Sprintf("ensure this field has at least %d characters", s.cfg.MinPasswordLength))
	}
	return nil
}
