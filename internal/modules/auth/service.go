package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beatlab/internal/domain"
)

type Service struct {
	users userRepo
	jwt   jwtService
}

func NewService(users userRepo, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a local email/password account with the user role.
// Admin accounts are provisioned through seeding, never self-service.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         domain.RoleUser,
		LoginMethod:  "password",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastSignedIn = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// OAuthLogin maps an upstream openId onto a local user, creating it on
// first sign-in, and issues a JWT for it.
func (s *Service) OAuthLogin(ctx context.Context, req OAuthLoginRequest) (*AuthResponse, error) {
	openID := strings.TrimSpace(req.OpenID)

	user := &domain.User{
		OpenID:      &openID,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Name:        req.Name,
		Role:        domain.RoleUser,
		LoginMethod: req.LoginMethod,
	}
	if err := s.users.UpsertByOpenID(ctx, user); err != nil {
		return nil, err
	}

	// Re-read: on conflict the upsert does not fill in the existing row,
	// and role must come from the stored record, not the request.
	user, err := s.users.GetByOpenID(ctx, openID)
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Token: token}, nil
}
