package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"enquiry-desk/internal/domain/enquiries"
)

type EnquiriesRepo struct {
	db *sql.DB
}

func NewEnquiriesRepo(db *sql.DB) *EnquiriesRepo {
	return &EnquiriesRepo{db: db}
}

func (r *EnquiriesRepo) Create(ctx context.Context, e enquiries.Enquiry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO enquiries (
			id,
			name, email, phone, course_interest, message,
			status, claimed_by, claimed_at,
			source, priority,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		e.ID,
		e.Name,
		e.Email,
		e.Phone,
		e.CourseInterest,
		e.Message,
		string(e.Status),
		toNullString(e.ClaimedBy),
		toNullTime(e.ClaimedAt),
		string(e.Source),
		string(e.Priority),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

// ClaimUnclaimed es el update condicional que garantiza exclusividad:
// la condición y el write viajan en un solo statement, así dos claims
// concurrentes sobre la misma fila nunca ganan los dos.
func (r *EnquiriesRepo) ClaimUnclaimed(ctx context.Context, id, employeeID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE enquiries
		SET
			status = $2,
			claimed_by = $3,
			claimed_at = $4,
			updated_at = $4
		WHERE id = $1
		  AND status = $5
		  AND claimed_by IS NULL
	`,
		id,
		string(enquiries.StatusClaimed),
		employeeID,
		at,
		string(enquiries.StatusUnclaimed),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *EnquiriesRepo) UpdateStatus(ctx context.Context, id string, status enquiries.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE enquiries
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return enquiries.ErrNotFound
	}
	return nil
}

// AppendNote inserta al final del historial. El orden autoritativo es
// seq (BIGSERIAL): si el reloj retrocede entre dos notas, seq manda.
func (r *EnquiriesRepo) AppendNote(ctx context.Context, enquiryID string, n enquiries.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO enquiry_notes (enquiry_id, text, added_by, added_at)
		VALUES ($1,$2,$3,$4)
	`, enquiryID, n.Text, n.AddedBy, n.AddedAt)
	return err
}

func (r *EnquiriesRepo) GetByID(ctx context.Context, id string) (enquiries.Enquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return enquiries.Enquiry{}, enquiries.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id,
			name, email, phone, course_interest, message,
			status, claimed_by, claimed_at,
			source, priority,
			created_at, updated_at
		FROM enquiries
		WHERE id = $1
	`, id)

	e, err := scanEnquiry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return enquiries.Enquiry{}, enquiries.ErrNotFound
		}
		return enquiries.Enquiry{}, err
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return enquiries.Enquiry{}, err
	}
	e.Notes = notes

	return e, nil
}

func (r *EnquiriesRepo) listNotes(ctx context.Context, enquiryID string) ([]enquiries.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, text, added_by, added_at
		FROM enquiry_notes
		WHERE enquiry_id = $1
		ORDER BY seq ASC
	`, enquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]enquiries.Note, 0)
	for rows.Next() {
		var n enquiries.Note
		if err := rows.Scan(&n.Seq, &n.Text, &n.AddedBy, &n.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func (r *EnquiriesRepo) ListUnclaimed(ctx context.Context, limit, offset int) ([]enquiries.Enquiry, error) {
	// Proyección de listado: sin notas.
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			name, email, phone, course_interest, message,
			status, claimed_by, claimed_at,
			source, priority,
			created_at, updated_at
		FROM enquiries
		WHERE status = $1 AND claimed_by IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, string(enquiries.StatusUnclaimed), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEnquiries(rows)
}

func (r *EnquiriesRepo) CountUnclaimed(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM enquiries
		WHERE status = $1 AND claimed_by IS NULL
	`, string(enquiries.StatusUnclaimed)).Scan(&n)
	return n, err
}

func (r *EnquiriesRepo) ListByClaimer(ctx context.Context, employeeID string, status *enquiries.Status, limit, offset int) ([]enquiries.Enquiry, error) {
	query := `
		SELECT
			id,
			name, email, phone, course_interest, message,
			status, claimed_by, claimed_at,
			source, priority,
			created_at, updated_at
		FROM enquiries
		WHERE claimed_by = $1
	`
	args := []any{employeeID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY claimed_at DESC`

	n := len(args)
	query += ` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEnquiries(rows)
}

func (r *EnquiriesRepo) CountByClaimer(ctx context.Context, employeeID string, status *enquiries.Status) (int, error) {
	query := `SELECT COUNT(*) FROM enquiries WHERE claimed_by = $1`
	args := []any{employeeID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}

	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnquiry(row rowScanner) (enquiries.Enquiry, error) {
	var e enquiries.Enquiry
	var status, source, priority string
	var claimedBy sql.NullString
	var claimedAt sql.NullTime

	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.CourseInterest,
		&e.Message,
		&status,
		&claimedBy,
		&claimedAt,
		&source,
		&priority,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return enquiries.Enquiry{}, err
	}

	e.Status = enquiries.Status(status)
	e.Source = enquiries.Source(source)
	e.Priority = enquiries.Priority(priority)

	if claimedBy.Valid {
		v := claimedBy.String
		e.ClaimedBy = &v
	}
	if claimedAt.Valid {
		t := claimedAt.Time
		e.ClaimedAt = &t
	}

	return e, nil
}

func scanEnquiries(rows *sql.Rows) ([]enquiries.Enquiry, error) {
	out := make([]enquiries.Enquiry, 0)
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
