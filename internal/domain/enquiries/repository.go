package enquiries

import (
	"context"
	"time"
)

// Repository es el contrato de persistencia de consultas.
//
// ClaimUnclaimed es el primitivo que sostiene la exclusividad del claim:
// el store debe aplicar "status=claimed, claimed_by=X, claimed_at=now
// WHERE id=? AND status=unclaimed AND claimed_by IS NULL" como una sola
// operación atómica y devolver cuántas filas afectó. Un read-then-write
// acá rompería la garantía (dos callers verían unclaimed a la vez).
//
// GetByID, UpdateStatus y AppendNote devuelven ErrNotFound cuando el id
// no existe; cualquier otro error es falla de infraestructura y sube
// tal cual.
type Repository interface {
	Create(ctx context.Context, e Enquiry) error
	GetByID(ctx context.Context, id string) (Enquiry, error)

	ClaimUnclaimed(ctx context.Context, id, employeeID string, at time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	AppendNote(ctx context.Context, enquiryID string, n Note) error

	// Listados. ListUnclaimed no trae notas (proyección de listado).
	ListUnclaimed(ctx context.Context, limit, offset int) ([]Enquiry, error)
	CountUnclaimed(ctx context.Context) (int, error)
	ListByClaimer(ctx context.Context, employeeID string, status *Status, limit, offset int) ([]Enquiry, error)
	CountByClaimer(ctx context.Context, employeeID string, status *Status) (int, error)
}
