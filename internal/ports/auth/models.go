package auth

// Role es el rol del empleado autenticado.
type Role string

const (
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// Claims representa la información extraída del token.
type Claims struct {
	EmployeeID string
	Role       Role
}
