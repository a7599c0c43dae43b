package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/courtdesk/courtdesk/internal/domain"
)

type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 session token for u. With a zero TTL the token
// never expires and lives exactly as long as the client keeps it.
func (s *Service) issueToken(u domain.User) (string, error) {
	c := claims{
		Role:  string(u.Role),
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.cfg.TokenTTL > 0 {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.cfg.TokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.cfg.TokenSecret)
}

// ParseToken validates a session token and resolves it to a principal.
func (s *Service) ParseToken(tokenStr string) (domain.Principal, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.cfg.TokenSecret, nil
	})
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	c, ok := t.Claims.(*claims)
	if !ok || !t.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   domain.Role(c.Role),
	}, nil
}
