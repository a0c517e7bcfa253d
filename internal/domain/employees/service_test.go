package employees

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"enquiry-desk/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Employee
	byEmail map[string]string
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:    map[string]Employee{},
		byEmail: map[string]string{},
	}
}

func (r *testRepo) Create(ctx context.Context, e Employee) error {
	if e.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[e.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[e.ID] = e
	r.byEmail[e.Email] = e.ID
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Employee, error) {
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *testRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	e.LastLogin = &at
	e.UpdatedAt = at
	r.byID[id] = e
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	e, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Laura Díaz",
		Email:    "Laura@Example.com",
		Password: "secreto1",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if e.Role != auth.RoleCounselor {
		t.Fatalf("expected default role counselor, got %s", e.Role)
	}
	if !e.IsActive {
		t.Fatalf("expected active on register")
	}
	if e.Email != "laura@example.com" {
		t.Fatalf("expected lowercased email, got %q", e.Email)
	}
	if e.PasswordHash == "secreto1" || e.PasswordHash == "" {
		t.Fatalf("password stored in clear or empty")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("secreto1")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestService_Register_RejectsDuplicateEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	in := RegisterInput{Name: "Laura Díaz", Email: "laura@example.com", Password: "secreto1"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Register_RejectsBadInput(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"short name", RegisterInput{Name: "L", Email: "a@b.com", Password: "secreto1"}},
		{"bad email", RegisterInput{Name: "Laura Díaz", Email: "nope", Password: "secreto1"}},
		{"short password", RegisterInput{Name: "Laura Díaz", Email: "a@b.com", Password: "12345"}},
		{"unknown role", RegisterInput{Name: "Laura Díaz", Email: "a@b.com", Password: "secreto1", Role: "superuser"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Login_SetsLastLogin(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Laura Díaz", Email: "laura@example.com", Password: "secreto1",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	loginTime := now.Add(time.Hour)
	svc.now = func() time.Time { return loginTime }

	e, err := svc.Login(context.Background(), "LAURA@example.com", "secreto1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if e.LastLogin == nil || !e.LastLogin.Equal(loginTime) {
		t.Fatalf("expected lastLogin set to login time, got %v", e.LastLogin)
	}
}

func TestService_Login_RejectsBadPasswordAndUnknownEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Laura Díaz", Email: "laura@example.com", Password: "secreto1",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "laura@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	// Email desconocido devuelve el mismo error que password mala
	// (no filtramos qué cuentas existen).
	if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestService_Login_RejectsInactive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	e, err := svc.Register(context.Background(), RegisterInput{
		Name: "Laura Díaz", Email: "laura@example.com", Password: "secreto1",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	stored := repo.byID[e.ID]
	stored.IsActive = false
	repo.byID[e.ID] = stored

	if _, err := svc.Login(context.Background(), "laura@example.com", "secreto1"); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if _, err := svc.VerifyActive(context.Background(), e.ID); !errors.Is(err, ErrInactive) {
		t.Fatalf("VerifyActive: expected ErrInactive, got %v", err)
	}
}
