package service

import (
	"classpulse/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenTTL = 12 * time.Hour
	tokenIssuer     = "classpulse"
)

// AuthService issues the lecturer token for the demo sign-in. No
// credentials are checked; the token only marks the caller as lecturer.
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueLecturerToken signs a lecturer token
func (s *AuthService) IssueLecturerToken() (*model.SignInResponse, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := &model.LecturerClaims{
		Role: model.RoleLecturer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   model.CurrentUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.SignInResponse{
		Token:     tokenString,
		ExpiresAt: expires.Unix(),
	}, nil
}

// ValidateLecturerToken validates a lecturer JWT and returns claims
func (s *AuthService) ValidateLecturerToken(tokenString string) (*model.LecturerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.LecturerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.LecturerClaims)
	if !ok || !token.Valid || claims.Role != model.RoleLecturer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
