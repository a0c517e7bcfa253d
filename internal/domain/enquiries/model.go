package enquiries

import "time"

// Enquiry representa una consulta de venta (lead) que entra sin dueño
// y se asigna al primer counselor que la reclama.
type Enquiry struct {
	ID string

	// Datos de contacto. Inmutables una vez creada la consulta.
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string

	Status Status

	// Invariante: ClaimedBy == nil <=> Status == unclaimed.
	// ClaimedAt se setea una única vez, junto con ClaimedBy, y nunca cambia.
	ClaimedBy *string
	ClaimedAt *time.Time

	Source   Source
	Priority Priority

	// Append-only. El orden de inserción (Seq) es el orden autoritativo.
	Notes []Note

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note es inmutable una vez agregada. AddedAt es informativo;
// Seq (asignado por el store) manda si el reloj se mueve.
type Note struct {
	Seq     int64
	Text    string
	AddedBy string
	AddedAt time.Time
}

// Page es la proyección paginada que devuelven los listados.
type Page struct {
	Items []Enquiry
	Total int
	Page  int
	Pages int
}
