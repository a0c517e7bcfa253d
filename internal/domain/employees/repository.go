package employees

import (
	"context"
	"time"
)

// Repository devuelve ErrNotFound cuando el id/email no existe;
// cualquier otro error es falla de infraestructura y sube tal cual.
type Repository interface {
	Create(ctx context.Context, e Employee) error
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
