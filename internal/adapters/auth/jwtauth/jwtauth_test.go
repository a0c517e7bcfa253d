package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"enquiry-desk/internal/domain/employees"
	"enquiry-desk/internal/ports/auth"
)

type stubSource struct {
	byID map[string]employees.Employee
}

func (s *stubSource) VerifyActive(ctx context.Context, id string) (employees.Employee, error) {
	e, ok := s.byID[id]
	if !ok || !e.IsActive {
		return employees.Employee{}, errors.New("not active")
	}
	return e, nil
}

func newStub() *stubSource {
	return &stubSource{byID: map[string]employees.Employee{
		"emp-1": {ID: "emp-1", Role: auth.RoleCounselor, IsActive: true},
		"emp-2": {ID: "emp-2", Role: auth.RoleAdmin, IsActive: false},
	}}
}

func TestJWTAuth_IssueAndVerify_RoundTrip(t *testing.T) {
	j := New("test-secret", time.Hour, newStub())

	token, err := j.Issue(context.Background(), auth.Claims{EmployeeID: "emp-1", Role: auth.RoleCounselor})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := j.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.EmployeeID != "emp-1" || claims.Role != auth.RoleCounselor {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTAuth_Verify_RejectsExpired(t *testing.T) {
	j := New("test-secret", time.Minute, newStub())

	issued := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issued }

	token, err := j.Issue(context.Background(), auth.Claims{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	j.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := j.Verify(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTAuth_Verify_RejectsWrongSecretAndGarbage(t *testing.T) {
	j := New("test-secret", time.Hour, newStub())
	other := New("other-secret", time.Hour, newStub())

	token, err := other.Issue(context.Background(), auth.Claims{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := j.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := j.Verify(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestJWTAuth_Verify_RejectsDeactivatedEmployee(t *testing.T) {
	// El token de emp-2 está bien firmado, pero la cuenta está inactiva:
	// el verify lo rechaza igual.
	j := New("test-secret", time.Hour, newStub())

	token, err := j.Issue(context.Background(), auth.Claims{EmployeeID: "emp-2", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := j.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for inactive employee, got %v", err)
	}
}

func TestJWTAuth_Verify_RoleComesFromStore(t *testing.T) {
	// El rol vigente sale del store: un token viejo con role=admin
	// no mantiene admin a quien fue degradado.
	stub := newStub()
	j := New("test-secret", time.Hour, stub)

	token, err := j.Issue(context.Background(), auth.Claims{EmployeeID: "emp-1", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := j.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Role != auth.RoleCounselor {
		t.Fatalf("expected role from store (counselor), got %s", claims.Role)
	}
}
