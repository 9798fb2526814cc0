package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the typ claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or shape checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when an access token is used where a refresh token is expected, or vice versa.
	ErrWrongTokenType = errors.New("unexpected token type")
)

// Claims is the payload signed into every token.
type Claims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric subject of the token.
func (c Claims) AccountID() (uint, error) {
	parsed, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || parsed == 0 {
		return 0, ErrInvalidToken
	}
	return uint(parsed), nil
}

// Issued is a freshly signed token with its identifiers.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Config configures a Manager.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Manager signs and verifies HS256 access and refresh tokens with separate secrets.
type Manager struct {
	cfg Config
	now func() time.Time
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token secrets are required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{cfg: cfg, now: time.Now}, nil
}

// WithClock overrides the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// RefreshTTL returns the lifetime of refresh tokens.
func (m *Manager) RefreshTTL() time.Duration {
	return m.cfg.RefreshTTL
}

// IssueAccess signs a short-lived access token carrying the account role.
func (m *Manager) IssueAccess(accountID uint, role string) (Issued, error) {
	return m.issue(accountID, role, TypeAccess, m.cfg.AccessTTL, m.cfg.AccessSecret)
}

// IssueRefresh signs a refresh token with a unique token id.
func (m *Manager) IssueRefresh(accountID uint) (Issued, error) {
	return m.issue(accountID, "", TypeRefresh, m.cfg.RefreshTTL, m.cfg.RefreshSecret)
}

// ParseAccess verifies an access token.
func (m *Manager) ParseAccess(raw string) (*Claims, error) {
	return m.parse(raw, TypeAccess, m.cfg.AccessSecret)
}

// ParseRefresh verifies a refresh token.
func (m *Manager) ParseRefresh(raw string) (*Claims, error) {
	return m.parse(raw, TypeRefresh, m.cfg.RefreshSecret)
}

func (m *Manager) issue(accountID uint, role, typ string, ttl time.Duration, secret string) (Issued, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	id := uuid.NewString()

	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return Issued{}, fmt.Errorf("sign %s token: %w", typ, err)
	}

	return Issued{Token: signed, ID: id, ExpiresAt: expiresAt}, nil
}

func (m *Manager) parse(raw, typ, secret string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	if _, err := claims.AccountID(); err != nil {
		return nil, err
	}

	return claims, nil
}
