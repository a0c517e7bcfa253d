package employees

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"enquiry-desk/internal/middleware"
	"enquiry-desk/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))
		ar.Get("/me", meHandler(svc))
		ar.Post("/logout", logoutHandler())
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // opcional, default counselor
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type employeeResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      auth.Role  `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type sessionResponse struct {
	Employee employeeResponse `json:"employee"`
	Token    string           `json:"token,omitempty"`
}

func registerHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     auth.Role(strings.TrimSpace(req.Role)),
		})
		if err != nil {
			writeAuthError(w, err)
			return
		}

		token, err := issueToken(r, issuer, e)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse{
			Employee: toEmployeeResponse(e),
			Token:    token,
		})
	}
}

func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		token, err := issueToken(r, issuer, e)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Employee: toEmployeeResponse(e),
			Token:    token,
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.EmployeeID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.GetByID(r.Context(), claims.EmployeeID)
		if err != nil {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toEmployeeResponse(e))
	}
}

func logoutHandler() http.HandlerFunc {
	// Logout es stateless: el cliente descarta el token. Existe para
	// que el frontend tenga un endpoint simétrico con login.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.EmployeeID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// issueToken tolera issuer nil (modo dev con X-Debug-Employee-ID):
// devuelve token vacío y el campo se omite en la respuesta.
func issueToken(r *http.Request, issuer auth.TokenIssuer, e Employee) (string, error) {
	if issuer == nil {
		return "", nil
	}
	return issuer.Issue(r.Context(), auth.Claims{
		EmployeeID: e.ID,
		Role:       e.Role,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrBadCredentials), errors.Is(err, ErrInactive):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "employee not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEmployeeResponse(e Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		IsActive:  e.IsActive,
		LastLogin: e.LastLogin,
		CreatedAt: e.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (enquiries/employees) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
