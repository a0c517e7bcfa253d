package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "enquiry-desk/docs"
	"enquiry-desk/internal/adapters/auth/jwtauth"
	mem "enquiry-desk/internal/adapters/storage/memory"
	pg "enquiry-desk/internal/adapters/storage/postgres"
	"enquiry-desk/internal/domain/employees"
	"enquiry-desk/internal/domain/enquiries"
	"enquiry-desk/internal/middleware"
	"enquiry-desk/internal/platform/logger"
	"enquiry-desk/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Puede ser nil (modo dev: headers X-Debug-Employee-ID / X-Debug-Role).
	AuthVerifier auth.AuthVerifier
	TokenIssuer  auth.TokenIssuer

	// Si JWTSecret viene y no hay verifier/issuer explícitos, el router
	// arma el adapter jwtauth sobre el service de empleados.
	JWTSecret   string
	TokenExpiry time.Duration

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// DSN para abrir Postgres cuando no te pasan la DB ya abierta.
	DBDSN string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	var (
		enquiryRepo  enquiries.Repository
		employeeRepo employees.Repository
	)

	// Si no te pasan DB explícita, intenta abrir con el DSN de config
	db := opts.DB
	if db == nil && opts.DBDSN != "" {
		if opened, err := pg.Open(opts.DBDSN); err == nil {
			db = opened
		}
	}

	if db != nil {
		enquiryRepo = pg.NewEnquiriesRepo(db)
		employeeRepo = pg.NewEmployeesRepo(db)
	} else {
		enquiryRepo = mem.NewEnquiryRepo()
		employeeRepo = mem.NewEmployeeRepo()
	}

	// Services por módulo
	enquiriesSvc := enquiries.NewService(enquiryRepo)
	employeesSvc := employees.NewService(employeeRepo)

	verifier := opts.AuthVerifier
	issuer := opts.TokenIssuer
	if verifier == nil && opts.JWTSecret != "" {
		j := jwtauth.New(opts.JWTSecret, opts.TokenExpiry, employeesSvc)
		verifier = j
		if issuer == nil {
			issuer = j
		}
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(opts.Log))
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Rutas por módulo
	enquiries.RegisterRoutes(r, enquiriesSvc)
	employees.RegisterRoutes(r, employeesSvc, issuer)

	return r
}
