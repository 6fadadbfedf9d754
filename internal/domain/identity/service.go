package identity

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opforms/opforms/internal/platform/auth"
)

type Service struct {
	repo     Repository
	jwtCfg   auth.JWTConfig
	tokenTTL time.Duration
}

func NewService(repo Repository, jwtCfg auth.JWTConfig, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg, tokenTTL: tokenTTL}
}

func (s *Service) CreateClinic(ctx context.Context, name string) (*Clinic, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	cl := &Clinic{Name: name}
	if err := s.repo.CreateClinic(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *Service) ListClinics(ctx context.Context) ([]*Clinic, error) {
	return s.repo.ListClinics(ctx)
}

// CreateUser hashes the password and stores the account.
func (s *Service) CreateUser(ctx context.Context, clinicID, username, password, fullName, role string) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ClinicID:     clinicID,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues a bearer token scoped to the
// user's clinic. A disabled account fails the same way bad credentials do.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err == ErrNotFound {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !u.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.jwtCfg, u.ID.String(), u.ClinicID, []string{u.Role}, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
