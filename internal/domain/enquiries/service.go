package enquiries

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyClaimed    = errors.New("enquiry already claimed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
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

type SubmitInput struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
	Source         Source
	Priority       Priority
}

// Submit registra una consulta nueva, siempre unclaimed y sin dueño.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Enquiry, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	course := strings.TrimSpace(in.CourseInterest)
	message := strings.TrimSpace(in.Message)

	if len(name) < 2 || len(name) > 100 {
		return Enquiry{}, ErrInvalidInput
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return Enquiry{}, ErrInvalidInput
	}
	if !phonePattern.MatchString(phone) {
		return Enquiry{}, ErrInvalidInput
	}
	if course == "" || len(course) > 200 {
		return Enquiry{}, ErrInvalidInput
	}
	if len(message) > 1000 {
		return Enquiry{}, ErrInvalidInput
	}

	source, ok := sourceOrDefault(in.Source)
	if !ok {
		return Enquiry{}, ErrInvalidInput
	}
	priority, ok := priorityOrDefault(in.Priority)
	if !ok {
		return Enquiry{}, ErrInvalidInput
	}

	now := s.now()
	e := Enquiry{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		CourseInterest: course,
		Message:        message,
		Status:         StatusUnclaimed,
		ClaimedBy:      nil,
		ClaimedAt:      nil,
		Source:         source,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Enquiry{}, err
	}
	return e, nil
}

// Claim intenta tomar la consulta para employeeID. Gana exactamente uno:
// la transición unclaimed -> claimed se delega al store como update
// condicional atómico; acá nunca hacemos read-then-write.
func (s *Service) Claim(ctx context.Context, id, employeeID string) (Enquiry, error) {
	id = strings.TrimSpace(id)
	employeeID = strings.TrimSpace(employeeID)
	if id == "" || employeeID == "" {
		return Enquiry{}, ErrInvalidInput
	}

	affected, err := s.repo.ClaimUnclaimed(ctx, id, employeeID, s.now())
	if err != nil {
		return Enquiry{}, err
	}

	if affected == 0 {
		// 0 filas: o no existe, o ya tiene dueño. Releer para distinguir.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return Enquiry{}, err
		}
		return Enquiry{}, ErrAlreadyClaimed
	}

	return s.repo.GetByID(ctx, id)
}

// Get devuelve una consulta puntual. Visible solo si está unclaimed
// o si el caller es su dueño. El rol no participa: un admin que no
// reclamó la consulta recibe forbidden igual que cualquiera.
func (s *Service) Get(ctx context.Context, id, employeeID string) (Enquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(employeeID) == "" {
		return Enquiry{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Enquiry{}, err
	}

	if e.ClaimedBy != nil && *e.ClaimedBy != employeeID {
		return Enquiry{}, ErrForbidden
	}
	return e, nil
}

// SetStatus avanza el ciclo de vida. Solo el dueño puede mutar; la
// auto-transición desde claimed/contacted es no-op exitoso.
func (s *Service) SetStatus(ctx context.Context, id, employeeID string, status Status) (Enquiry, error) {
	id = strings.TrimSpace(id)
	employeeID = strings.TrimSpace(employeeID)
	if id == "" || employeeID == "" || !status.IsValid() {
		return Enquiry{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Enquiry{}, err
	}

	// Sin dueño no hay SetStatus posible: el único camino desde
	// unclaimed es Claim. Transición ilegal, no problema de permisos.
	if e.Status == StatusUnclaimed {
		return Enquiry{}, ErrInvalidTransition
	}

	if e.ClaimedBy == nil || *e.ClaimedBy != employeeID {
		return Enquiry{}, ErrForbidden
	}

	if status == e.Status {
		// claimed -> claimed y contacted -> contacted: no-op.
		// Desde terminales no hay no-op: converted/lost rechazan todo.
		if e.Status.IsTerminal() {
			return Enquiry{}, ErrInvalidTransition
		}
		return e, nil
	}

	if !CanTransition(e.Status, status) {
		return Enquiry{}, ErrInvalidTransition
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return Enquiry{}, err
	}

	e.Status = status
	e.UpdatedAt = now
	return e, nil
}

// AddNote agrega una nota al historial. Mismo gate de ownership que
// SetStatus. Las notas nunca se editan ni se borran.
func (s *Service) AddNote(ctx context.Context, id, employeeID, text string) (Enquiry, error) {
	id = strings.TrimSpace(id)
	employeeID = strings.TrimSpace(employeeID)
	text = strings.TrimSpace(text)
	if id == "" || employeeID == "" {
		return Enquiry{}, ErrInvalidInput
	}
	if text == "" {
		return Enquiry{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Enquiry{}, err
	}

	if e.ClaimedBy == nil || *e.ClaimedBy != employeeID {
		return Enquiry{}, ErrForbidden
	}

	n := Note{
		Text:    text,
		AddedBy: employeeID,
		AddedAt: s.now(),
	}
	if err := s.repo.AppendNote(ctx, id, n); err != nil {
		return Enquiry{}, err
	}

	return s.repo.GetByID(ctx, id)
}

// ListUnclaimed pagina la cola de consultas sin dueño (sin notas).
func (s *Service) ListUnclaimed(ctx context.Context, page, limit int) (Page, error) {
	page, limit = clampPage(page, limit)

	items, err := s.repo.ListUnclaimed(ctx, limit, (page-1)*limit)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.CountUnclaimed(ctx)
	if err != nil {
		return Page{}, err
	}

	return buildPage(items, total, page, limit), nil
}

// ListMine pagina las consultas reclamadas por employeeID, con filtro
// opcional por estado (solo los cuatro estados post-claim).
func (s *Service) ListMine(ctx context.Context, employeeID string, status *Status, page, limit int) (Page, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Page{}, ErrInvalidInput
	}
	if status != nil {
		if !status.IsValid() || *status == StatusUnclaimed {
			return Page{}, ErrInvalidInput
		}
	}

	page, limit = clampPage(page, limit)

	items, err := s.repo.ListByClaimer(ctx, employeeID, status, limit, (page-1)*limit)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.CountByClaimer(ctx, employeeID, status)
	if err != nil {
		return Page{}, err
	}

	return buildPage(items, total, page, limit), nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func buildPage(items []Enquiry, total, page, limit int) Page {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Page{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}
}
