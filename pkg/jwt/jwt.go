package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired is returned when a token is past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for malformed or wrongly signed tokens.
	ErrInvalid = errors.New("token invalid")
)

// Manager handles JWT operations
type Manager struct {
	accessSecret  string
	refreshSecret string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

// NewManager creates a new JWT manager
func NewManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        "teachconnect",
	}
}

// GenerateAccessToken generates an access token bound to a session
func (m *Manager) GenerateAccessToken(userID, sessionID uuid.UUID, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.accessSecret))
}

// GenerateRefreshToken generates a refresh token for a session
func (m *Manager) GenerateRefreshToken(userID, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.refreshSecret))
}

// ValidateAccessToken validates and parses access token
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims, m.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns user and session IDs
func (m *Manager) ValidateRefreshToken(tokenString string) (uuid.UUID, uuid.UUID, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims, m.refreshSecret); err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalid)
	}
	return userID, claims.SessionID, nil
}

func (m *Manager) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !token.Valid {
		return ErrInvalid
	}
	return nil
}

// GetAccessExpiry returns access token expiry duration
func (m *Manager) GetAccessExpiry() time.Duration {
	return m.accessExpiry
}

// GetRefreshExpiry returns refresh token expiry duration
func (m *Manager) GetRefreshExpiry() time.Duration {
	return m.refreshExpiry
}
