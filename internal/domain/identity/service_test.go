package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opforms/opforms/internal/platform/auth"
)

type mockRepo struct {
	clinics map[uuid.UUID]*Clinic
	users   map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		clinics: make(map[uuid.UUID]*Clinic),
		users:   make(map[string]*User),
	}
}

func (m *mockRepo) CreateClinic(_ context.Context, cl *Clinic) error {
	cl.ID = uuid.New()
	cl.CreatedAt = time.Now()
	m.clinics[cl.ID] = cl
	return nil
}

func (m *mockRepo) GetClinic(_ context.Context, id uuid.UUID) (*Clinic, error) {
	cl, ok := m.clinics[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cl, nil
}

func (m *mockRepo) ListClinics(_ context.Context) ([]*Clinic, error) {
	var result []*Clinic
	for _, cl := range m.clinics {
		result = append(result, cl)
	}
	return result, nil
}

func (m *mockRepo) CreateUser(_ context.Context, u *User) error {
	u.ID = uuid.New()
	m.users[u.Username] = u
	return nil
}

func (m *mockRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

var testJWT = auth.JWTConfig{Issuer: "opforms-test", SigningKey: []byte("test-signing-key")}

func newTestService() *Service {
	return NewService(newMockRepo(), testJWT, time.Hour)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newTestService()
	u, err := svc.CreateUser(context.Background(), "clinic-1", "rn.jones", "s3cret", "RN Jones", RoleNurse)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Error("password must be stored as a bcrypt hash")
	}
	if !u.IsActive {
		t.Error("new users start active")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateUser(context.Background(), "clinic-1", "", "pw", "", RoleNurse); err == nil {
		t.Error("expected error for missing username")
	}
	if _, err := svc.CreateUser(context.Background(), "clinic-1", "u", "pw", "", "janitor"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestLoginIssuesScopedToken(t *testing.T) {
	svc := newTestService()
	u, _ := svc.CreateUser(context.Background(), "clinic-1", "rn.jones", "s3cret", "RN Jones", RoleNurse)

	token, got, err := svc.Login(context.Background(), "rn.jones", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Error("login must return the authenticated user")
	}

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return testJWT.SigningKey, nil
	})
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.ClinicID != "clinic-1" {
		t.Errorf("clinic claim = %s, want clinic-1", claims.ClinicID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleNurse {
		t.Errorf("roles claim = %v", claims.Roles)
	}
	if claims.Subject != u.ID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, u.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService()
	svc.CreateUser(context.Background(), "clinic-1", "rn.jones", "s3cret", "RN Jones", RoleNurse)

	if _, _, err := svc.Login(context.Background(), "rn.jones", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "s3cret"); err != ErrInvalidCredentials {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, testJWT, time.Hour)
	u, _ := svc.CreateUser(context.Background(), "clinic-1", "rn.jones", "s3cret", "RN Jones", RoleNurse)
	u.IsActive = false

	if _, _, err := svc.Login(context.Background(), "rn.jones", "s3cret"); err != ErrInvalidCredentials {
		t.Errorf("disabled account: err = %v, want ErrInvalidCredentials", err)
	}
}
