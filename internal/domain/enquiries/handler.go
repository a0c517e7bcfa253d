package enquiries

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"enquiry-desk/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/enquiries", func(er chi.Router) {
		// Alta pública (formulario web), sin auth.
		er.Post("/", submitEnquiryHandler(svc))

		// Todo lo demás exige empleado autenticado.
		er.Get("/unclaimed", listUnclaimedHandler(svc))
		er.Get("/my-enquiries", listMineHandler(svc))
		er.Post("/{enquiryID}/claim", claimEnquiryHandler(svc))
		er.Get("/{enquiryID}", getEnquiryHandler(svc))
		er.Put("/{enquiryID}/status", setStatusHandler(svc))
		er.Post("/{enquiryID}/notes", addNoteHandler(svc))
	})
}

type submitEnquiryRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CourseInterest string `json:"course_interest"`
	Message        string `json:"message"`
	Source         string `json:"source"`   // opcional
	Priority       string `json:"priority"` // opcional
}

type setStatusRequest struct {
	Status string `json:"status" enums:"claimed,contacted,converted,lost"`
}

type addNoteRequest struct {
	Text string `json:"text"`
}

type noteResponse struct {
	Seq     int64     `json:"seq"`
	Text    string    `json:"text"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

type enquiryResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	CourseInterest string         `json:"course_interest"`
	Message        string         `json:"message"`
	Status         Status         `json:"status"`
	ClaimedBy      *string        `json:"claimed_by,omitempty"`
	ClaimedAt      *time.Time     `json:"claimed_at,omitempty"`
	Source         Source         `json:"source"`
	Priority       Priority       `json:"priority"`
	Notes          []noteResponse `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type pageResponse struct {
	Count int               `json:"count"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Data  []enquiryResponse `json:"data"`
}

func submitEnquiryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitEnquiryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Submit(r.Context(), SubmitInput{
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			CourseInterest: req.CourseInterest,
			Message:        req.Message,
			Source:         Source(strings.TrimSpace(req.Source)),
			Priority:       Priority(strings.TrimSpace(req.Priority)),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEnquiryResponse(e))
	}
}

// listUnclaimedHandler godoc
// @Summary Listar consultas sin dueño
// @Description Cola de consultas unclaimed, más recientes primero. Las notas no viajan en el listado. Autenticación: `X-Debug-Employee-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags enquiries
// @Produce json
// @Param page query int false "Página (desde 1)"
// @Param limit query int false "Tamaño de página (1-100, default 20)"
// @Success 200 {object} pageResponse
// @Failure 401 {string} string "unauthorized"
// @Router /enquiries/unclaimed [get]
func listUnclaimedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		page, limit := parsePagination(r)
		p, err := svc.ListUnclaimed(r.Context(), page, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(p))
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		var status *Status
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			st := Status(raw)
			status = &st
		}

		page, limit := parsePagination(r)
		p, err := svc.ListMine(r.Context(), employeeID, status, page, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(p))
	}
}

// claimEnquiryHandler godoc
// @Summary Reclamar una consulta
// @Description Toma ownership exclusivo de una consulta unclaimed. Si otro counselor ganó la carrera devuelve 409 para que el cliente refresque su lista.
// @Tags enquiries
// @Produce json
// @Param enquiryID path string true "ID de la consulta"
// @Success 200 {object} enquiryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enquiry not found"
// @Failure 409 {string} string "enquiry already claimed"
// @Router /enquiries/{enquiryID}/claim [post]
func claimEnquiryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		e, err := svc.Claim(r.Context(), chi.URLParam(r, "enquiryID"), employeeID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEnquiryResponse(e))
	}
}

func getEnquiryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		e, err := svc.Get(r.Context(), chi.URLParam(r, "enquiryID"), employeeID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEnquiryResponse(e))
	}
}

func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.SetStatus(r.Context(), chi.URLParam(r, "enquiryID"), employeeID, Status(strings.TrimSpace(req.Status)))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEnquiryResponse(e))
	}
}

func addNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployee(w, r)
		if !ok {
			return
		}

		var req addNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.AddNote(r.Context(), chi.URLParam(r, "enquiryID"), employeeID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEnquiryResponse(e))
	}
}

// requireEmployee corta con 401 si no hay empleado autenticado en el contexto.
func requireEmployee(w http.ResponseWriter, r *http.Request) (employeeID string, ok bool) {
	claims, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(claims.EmployeeID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.EmployeeID, true
}

func parsePagination(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return page, limit
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "enquiry not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrAlreadyClaimed):
		http.Error(w, "enquiry already claimed", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEnquiryResponse(e Enquiry) enquiryResponse {
	notes := make([]noteResponse, 0, len(e.Notes))
	for _, n := range e.Notes {
		notes = append(notes, noteResponse{
			Seq:     n.Seq,
			Text:    n.Text,
			AddedBy: n.AddedBy,
			AddedAt: n.AddedAt,
		})
	}

	return enquiryResponse{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		Phone:          e.Phone,
		CourseInterest: e.CourseInterest,
		Message:        e.Message,
		Status:         e.Status,
		ClaimedBy:      e.ClaimedBy,
		ClaimedAt:      e.ClaimedAt,
		Source:         e.Source,
		Priority:       e.Priority,
		Notes:          notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toPageResponse(p Page) pageResponse {
	data := make([]enquiryResponse, 0, len(p.Items))
	for _, e := range p.Items {
		data = append(data, toEnquiryResponse(e))
	}
	return pageResponse{
		Count: len(data),
		Total: p.Total,
		Page:  p.Page,
		Pages: p.Pages,
		Data:  data,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (enquiries/employees) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
