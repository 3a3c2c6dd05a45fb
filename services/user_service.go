package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"shalom-hotel/models"
	"shalom-hotel/repository"
	"shalom-hotel/utils"
)

type UserService struct {
	store     repository.Store
	jwtSecret []byte
}

func NewUserService(store repository.Store, jwtSecret []byte) *UserService {
	return &UserService{store: store, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries the issued token together with the user it belongs to.
type AuthResult struct {
	Token string       `json:"token"`
	Role  string       `json:"role"`
	User  *models.User `json:"user"`
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, ErrValidation("email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, ErrValidation("password is required")
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrValidation("invalid role, must be USER or ADMIN")
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrConflict("email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInternal("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal("failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role,
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict("email already exists")
		}
		return nil, ErrInternal("failed to register user", err)
	}

	token, err := utils.GenerateAuthToken(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return nil, ErrInternal("failed to generate token", err)
	}
	return &AuthResult{Token: token, Role: user.Role, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, ErrValidation("email is required")
	}
	if req.Password == "" {
		return nil, ErrValidation("password is required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("invalid credentials")
		}
		return nil, ErrInternal("failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrNotFound("invalid credentials")
	}

	token, err := utils.GenerateAuthToken(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return nil, ErrInternal("failed to generate token", err)
	}
	return &AuthResult{Token: token, Role: user.Role, User: user}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, ErrInternal("failed to retrieve user", err)
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, ErrInternal("failed to retrieve users", err)
	}
	return users, nil
}

type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, ErrInternal("failed to load user", err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrInternal("failed to hash password", err)
		}
		user.Password = string(hash)
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, ErrInternal("failed to update user", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.store.FindUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound("user not found")
		}
		return ErrInternal("failed to load user", err)
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return ErrInternal("failed to delete user", err)
	}
	return nil
}
