package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"enquiry-desk/internal/domain/employees"
)

type employeeRepo struct {
	mu      sync.RWMutex
	byID    map[string]employees.Employee
	byEmail map[string]string // email -> id
}

func NewEmployeeRepo() employees.Repository {
	return &employeeRepo{
		byID:    make(map[string]employees.Employee),
		byEmail: make(map[string]string),
	}
}

func (r *employeeRepo) Create(ctx context.Context, e employees.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("employee id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("employee already exists")
	}
	if _, exists := r.byEmail[e.Email]; exists {
		return errors.New("email already exists")
	}

	r.byID[e.ID] = e
	r.byEmail[e.Email] = e.ID
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (employees.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return employees.Employee{}, employees.ErrNotFound
	}
	return e, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (employees.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return employees.Employee{}, employees.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *employeeRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return employees.ErrNotFound
	}

	e.LastLogin = &at
	e.UpdatedAt = at
	r.byID[id] = e
	return nil
}
