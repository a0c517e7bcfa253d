package employees

import (
	"time"

	"enquiry-desk/internal/ports/auth"
)

// Employee es un actor del sistema (counselor o admin).
// El claim engine solo usa su ID; el rol vive acá y en los claims.
type Employee struct {
	ID    string
	Name  string
	Email string

	// Hash bcrypt. Nunca viaja en respuestas.
	PasswordHash string

	Role     auth.Role
	IsActive bool

	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
