package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"enquiry-desk/internal/domain/enquiries"
)

type enquiryRepo struct {
	mu      sync.RWMutex
	byID    map[string]enquiries.Enquiry
	nextSeq int64
}

func NewEnquiryRepo() enquiries.Repository {
	return &enquiryRepo{
		byID: make(map[string]enquiries.Enquiry),
	}
}

func (r *enquiryRepo) Create(ctx context.Context, e enquiries.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("enquiry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("enquiry already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *enquiryRepo) GetByID(ctx context.Context, id string) (enquiries.Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return enquiries.Enquiry{}, enquiries.ErrNotFound
	}
	return cloneEnquiry(e), nil
}

// ClaimUnclaimed: chequeo y escritura bajo el mismo write lock, el
// equivalente in-memory del update condicional de Postgres.
func (r *enquiryRepo) ClaimUnclaimed(ctx context.Context, id, employeeID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	if e.Status != enquiries.StatusUnclaimed || e.ClaimedBy != nil {
		return 0, nil
	}

	e.Status = enquiries.StatusClaimed
	e.ClaimedBy = &employeeID
	e.ClaimedAt = &at
	e.UpdatedAt = at
	r.byID[id] = e

	return 1, nil
}

func (r *enquiryRepo) UpdateStatus(ctx context.Context, id string, status enquiries.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return enquiries.ErrNotFound
	}

	e.Status = status
	e.UpdatedAt = at
	r.byID[id] = e
	return nil
}

func (r *enquiryRepo) AppendNote(ctx context.Context, enquiryID string, n enquiries.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[enquiryID]
	if !ok {
		return enquiries.ErrNotFound
	}

	r.nextSeq++
	n.Seq = r.nextSeq
	e.Notes = append(e.Notes, n)
	r.byID[enquiryID] = e
	return nil
}

func (r *enquiryRepo) ListUnclaimed(ctx context.Context, limit, offset int) ([]enquiries.Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]enquiries.Enquiry, 0)
	for _, e := range r.byID {
		if e.Status != enquiries.StatusUnclaimed || e.ClaimedBy != nil {
			continue
		}
		e.Notes = nil // proyección de listado: sin notas
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return slicePage(out, limit, offset), nil
}

func (r *enquiryRepo) CountUnclaimed(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.byID {
		if e.Status == enquiries.StatusUnclaimed && e.ClaimedBy == nil {
			n++
		}
	}
	return n, nil
}

func (r *enquiryRepo) ListByClaimer(ctx context.Context, employeeID string, status *enquiries.Status, limit, offset int) ([]enquiries.Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]enquiries.Enquiry, 0)
	for _, e := range r.byID {
		if e.ClaimedBy == nil || *e.ClaimedBy != employeeID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, cloneEnquiry(e))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ClaimedAt.After(*out[j].ClaimedAt)
	})

	return slicePage(out, limit, offset), nil
}

func (r *enquiryRepo) CountByClaimer(ctx context.Context, employeeID string, status *enquiries.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.byID {
		if e.ClaimedBy == nil || *e.ClaimedBy != employeeID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		n++
	}
	return n, nil
}

// cloneEnquiry copia el slice de notas para que el caller no pueda
// mutar el estado guardado por fuera del repo.
func cloneEnquiry(e enquiries.Enquiry) enquiries.Enquiry {
	if len(e.Notes) > 0 {
		notes := make([]enquiries.Note, len(e.Notes))
		copy(notes, e.Notes)
		e.Notes = notes
	}
	return e
}

func slicePage(items []enquiries.Enquiry, limit, offset int) []enquiries.Enquiry {
	if offset >= len(items) {
		return []enquiries.Enquiry{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
