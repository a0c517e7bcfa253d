package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"enquiry-desk/internal/domain/employees"
	"enquiry-desk/internal/ports/auth"
)

type EmployeesRepo struct {
	db *sql.DB
}

func NewEmployeesRepo(db *sql.DB) *EmployeesRepo {
	return &EmployeesRepo{db: db}
}

func (r *EmployeesRepo) Create(ctx context.Context, e employees.Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, name, email, password_hash,
			role, is_active, last_login,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.Name,
		e.Email,
		e.PasswordHash,
		string(e.Role),
		e.IsActive,
		toNullTime(e.LastLogin),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EmployeesRepo) GetByID(ctx context.Context, id string) (employees.Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return employees.Employee{}, employees.ErrNotFound
	}
	return r.getByField(ctx, "id", id)
}

func (r *EmployeesRepo) GetByEmail(ctx context.Context, email string) (employees.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return employees.Employee{}, employees.ErrNotFound
	}
	return r.getByField(ctx, "email", email)
}

func (r *EmployeesRepo) getByField(ctx context.Context, field, value string) (employees.Employee, error) {
	// field viene de este mismo archivo ("id" o "email"), nunca del request.
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, email, password_hash,
			role, is_active, last_login,
			created_at, updated_at
		FROM employees
		WHERE `+field+` = $1
	`, value)

	var e employees.Employee
	var role string
	var lastLogin sql.NullTime
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&role,
		&e.IsActive,
		&lastLogin,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return employees.Employee{}, employees.ErrNotFound
		}
		return employees.Employee{}, err
	}

	e.Role = auth.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		e.LastLogin = &t
	}

	return e, nil
}

func (r *EmployeesRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET last_login = $2, updated_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return employees.ErrNotFound
	}
	return nil
}
