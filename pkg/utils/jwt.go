package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "stewardpro-api"

// Token kinds share a signing key; the typ claim keeps a refresh token
// from being presented as an access token and the reverse.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

// JWTClaims carries the platform roles and permissions of a user. Church
// roles are resolved per request from the membership table.
type JWTClaims struct {
	TokenType   string    `json:"typ"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and checks HS256 tokens
type JWTManager struct {
	secretKey          []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

func NewJWTManager(secret string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:          []byte(secret),
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// AccessExpiry is reported to clients as expires_in
func (m *JWTManager) AccessExpiry() time.Duration {
	return m.accessTokenExpiry
}

func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, email string, roles, permissions []string) (string, error) {
	return m.sign(&JWTClaims{
		TokenType:        TokenAccess,
		UserID:           userID,
		Email:            email,
		Roles:            roles,
		Permissions:      permissions,
		RegisteredClaims: m.registered(userID, m.accessTokenExpiry),
	})
}

func (m *JWTManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return m.sign(&JWTClaims{
		TokenType:        TokenRefresh,
		UserID:           userID,
		RegisteredClaims: m.registered(userID, m.refreshTokenExpiry),
	})
}

func (m *JWTManager) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return m.parse(tokenString, TokenAccess)
}

// ValidateRefreshToken returns the user the refresh token was issued to
func (m *JWTManager) ValidateRefreshToken(tokenString string) (uuid.UUID, error) {
	claims, err := m.parse(tokenString, TokenRefresh)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (m *JWTManager) registered(userID uuid.UUID, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   userID.String(),
	}
}

func (m *JWTManager) sign(claims *JWTClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

func (m *JWTManager) parse(tokenString, want string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		return nil, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	return claims, nil
}
