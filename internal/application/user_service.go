package application

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shareit-market/service-rental/internal/domain"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest holds a partial user update; nil fields are unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService is the application service for account management.
type UserService struct {
	users    userDomain.Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.Repository, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create registers a new user with a unique, well-formed email.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return nil, domain.NewValidationError("email '" + req.Email + "' is not a valid email address")
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("user with email '" + req.Email + "' already exists")
	}

	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	dto := toUserDTO(saved)
	return &dto, nil
}

// Update applies a partial update; a changed email must stay well-formed
// and unique.
func (s *UserService) Update(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" && *req.Email != u.Email() {
		if err := s.validate.Var(*req.Email, "required,email"); err != nil {
			return nil, domain.NewValidationError("email '" + *req.Email + "' is not a valid email address")
		}
		existing, err := s.users.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID() != userID {
			return nil, domain.NewConflictError("user with email '" + *req.Email + "' already exists")
		}
	}

	u.Update(req.Name, req.Email)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := toUserDTO(u)
	return &dto, nil
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// List retrieves all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
	}
}
