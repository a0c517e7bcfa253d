package employees

import (
	"context"
	"errors"
	"strings"
	"time"

	"enquiry-desk/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrInactive       = errors.New("account deactivated")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

// Register da de alta un empleado activo. Rol default: counselor.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Employee, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if len(name) < 2 || len(name) > 100 {
		return Employee{}, ErrInvalidInput
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return Employee{}, ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return Employee{}, ErrInvalidInput
	}

	role := in.Role
	if role == "" {
		role = auth.RoleCounselor
	}
	if role != auth.RoleCounselor && role != auth.RoleAdmin {
		return Employee{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Employee{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Employee{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Employee{}, err
	}

	now := s.now()
	e := Employee{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

// Login valida credenciales y registra el último acceso.
// Cuentas desactivadas no entran aunque la password sea correcta.
func (s *Service) Login(ctx context.Context, email, password string) (Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Employee{}, ErrInvalidInput
	}

	e, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Email desconocido y password incorrecta responden igual.
		if errors.Is(err, ErrNotFound) {
			return Employee{}, ErrBadCredentials
		}
		return Employee{}, err
	}
	if !e.IsActive {
		return Employee{}, ErrInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return Employee{}, ErrBadCredentials
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, e.ID, now); err != nil {
		return Employee{}, err
	}
	e.LastLogin = &now

	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Employee{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

// VerifyActive lo consume el verifier de tokens: un token firmado
// deja de servir si el empleado fue desactivado o borrado.
func (s *Service) VerifyActive(ctx context.Context, id string) (Employee, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if !e.IsActive {
		return Employee{}, ErrInactive
	}
	return e, nil
}
