package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bizops/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaims  = errors.New("invalid token claims")
	ErrMissingSubject = errors.New("missing subject in claims")
)

// Claims are the JWT claims accepted by the service. Tokens are issued by
// the external identity provider; this service only validates them and
// extracts the principal.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserUUID parses the token subject as the user id.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// JWTService validates externally issued HS256 bearer tokens.
type JWTService struct {
	parser *jwt.Parser
	secret []byte
	issuer string
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Validate checks the token signature and temporal claims and returns the
// parsed claims. The issuer is checked only when the token carries one, so
// that tokens minted before the provider set an issuer keep working.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := s.parser.ParseWithClaims(tokenString, &claims, s.keyFunc)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case !token.Valid:
		return nil, ErrInvalidClaims
	}

	if s.issuer != "" && claims.Issuer != "" && claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return &claims, nil
}

func (s *JWTService) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}
