package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"leadboard/internal/config"
)

const (
	CookieName = "auth_token"
	claimsKey  = "session"
)

var (
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidToken     = errors.New("invalid or expired session token")
)

// Claims is the session token payload.
type Claims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}

// Manager checks the dashboard password and issues and verifies HS256
// session tokens carried in the auth cookie.
type Manager struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		password: []byte(cfg.DashboardPassword),
		secret:   []byte(cfg.SessionSecret),
		ttl:      cfg.SessionTTL,
		secure:   cfg.IsProduction(),
		now:      time.Now,
	}
}

// CheckPassword compares in constant time.
func (m *Manager) CheckPassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if subtle.ConstantTimeCompare([]byte(password), m.password) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// Issue signs a new session token.
func (m *Manager) Issue() (string, error) {
	now := m.now()
	claims := Claims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Verify parses a session token, rejecting bad signatures, other algorithms
// and expired sessions.
func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}
	token, err := jwt.ParseWithClaims(raw, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || !claims.Authenticated {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie stores the token in an httpOnly, SameSite=Strict cookie.
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// RequireSession rejects requests without a valid session cookie. An invalid
// cookie is cleared.
func (m *Manager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autenticado"})
			return
		}

		claims, err := m.Verify(raw)
		if err != nil {
			m.ClearCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido o expirado"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// SessionFrom returns the claims RequireSession attached to the request.
func SessionFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
