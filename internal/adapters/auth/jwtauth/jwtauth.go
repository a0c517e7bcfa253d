package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"enquiry-desk/internal/domain/employees"
	"enquiry-desk/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// EmployeeSource re-valida al dueño del token en cada verify:
// un token firmado deja de servir si la cuenta fue desactivada.
type EmployeeSource interface {
	VerifyActive(ctx context.Context, employeeID string) (employees.Employee, error)
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth implementa auth.TokenIssuer y auth.AuthVerifier con HS256.
type JWTAuth struct {
	secret    []byte
	expiry    time.Duration
	employees EmployeeSource
	now       func() time.Time
}

func New(secret string, expiry time.Duration, source EmployeeSource) *JWTAuth {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &JWTAuth{
		secret:    []byte(secret),
		expiry:    expiry,
		employees: source,
		now:       time.Now,
	}
}

func (j *JWTAuth) Issue(ctx context.Context, c auth.Claims) (string, error) {
	if strings.TrimSpace(c.EmployeeID) == "" {
		return "", ErrInvalidToken
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Role: string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.EmployeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTAuth) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	out := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, out, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(out.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	// El rol vigente sale del store, no del token: si un admin fue
	// degradado, el claim viejo no lo mantiene admin.
	e, err := j.employees.VerifyActive(ctx, out.Subject)
	if err != nil {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		EmployeeID: e.ID,
		Role:       e.Role,
	}, nil
}
