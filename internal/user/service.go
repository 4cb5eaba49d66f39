package user

import (
	"context"
	"errors"

	"gymflow/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*User, error)
	ListMembers(ctx context.Context, clubID *int, limit, offset int) ([]User, error)
}

type service struct {
	repo   Repository
	tokens *auth.Issuer
}

func NewService(repo Repository, tokens *auth.Issuer) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
	}
}

func identityOf(u *User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	clubID := req.ClubID
	user, err := s.create(ctx, req.Name, req.Email, req.Password, auth.RoleMember, &clubID)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.tokens.Pair(identityOf(user))
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*User, error) {
	return s.create(ctx, req.Name, req.Email, req.Password, auth.RoleStaff, req.ClubID)
}

func (s *service) create(ctx context.Context, name, email, password, role string, clubID *int) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, name, email, passwordHash, role, clubID)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.Pair(identityOf(user))
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	// Re-issue from the stored record so role changes take effect on refresh.
	newAccessToken, err := s.tokens.Access(identityOf(user))
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) ListMembers(ctx context.Context, clubID *int, limit, offset int) ([]User, error) {
	return s.repo.ListMembers(ctx, clubID, limit, offset)
}
