package auth

import (
	crypto_rand "crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DefaultCookieName = "clinic_session"
	sessionIssuer     = "clinic-server"
)

var ErrInvalidSession = errors.New("invalid session")

// Claims is the payload of the signed session token.
type Claims struct {
	jwt.RegisteredClaims
	Login string `json:"login"`
	Name  string `json:"name"`
}

type SessionConfig struct {
	SigningKey []byte
	TTL        time.Duration
	CookieName string
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// SessionManager issues and verifies the HS256 session cookie that carries
// the authenticated doctor between requests.
type SessionManager struct {
	cfg     SessionConfig
	now     func() time.Time
	revoked *RevocationStore
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &SessionManager{cfg: cfg, now: time.Now, revoked: NewRevocationStore()}
}

// Sign returns a signed token for id.
func (m *SessionManager) Sign(id Identity) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatInt(id.DoctorID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
		Login: id.Login,
		Name:  id.FullName,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns the identity it carries. Tokens ended
// by Clear are rejected.
func (m *SessionManager) Parse(tokenStr string) (*Identity, error) {
	claims, err := m.parseClaims(tokenStr)
	if err != nil {
		return nil, err
	}
	if m.revoked.IsRevoked(claims.ID) {
		return nil, ErrInvalidSession
	}

	doctorID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || doctorID <= 0 {
		return nil, ErrInvalidSession
	}
	return &Identity{DoctorID: doctorID, Login: claims.Login, FullName: claims.Name}, nil
}

func (m *SessionManager) parseClaims(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Issue signs id and stores it in the session cookie.
func (m *SessionManager) Issue(c echo.Context, id Identity) error {
	token, err := m.Sign(id)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.cfg.TTL),
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear revokes the request's session token, if it carries a valid one, and
// expires the cookie.
func (m *SessionManager) Clear(c echo.Context) {
	if cookie, err := c.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		if claims, err := m.parseClaims(cookie.Value); err == nil && claims.ExpiresAt != nil {
			m.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the session cookie into a request-scoped Identity.
// A missing cookie leaves the request anonymous; a bad one is also cleared.
func (m *SessionManager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(m.cfg.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			id, err := m.Parse(cookie.Value)
			if err != nil {
				m.Clear(c)
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// ResolveSigningKey returns secret as the signing key, or a random 32-byte
// key when secret is empty. The second return value is true when the key was
// generated.
func ResolveSigningKey(secret string) ([]byte, bool, error) {
	if secret != "" {
		return []byte(secret), false, nil
	}
	key := make([]byte, 32)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate session signing key: %w", err)
	}
	return key, true, nil
}
