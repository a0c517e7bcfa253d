package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token firmado para los claims dados.
// Lo implementa el adapter jwtauth; los handlers de auth solo ven este puerto.
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (string, error)
}
