package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// SessionClaims is the stateless session token minted after sign-in. It
// carries the identity fields downstream handlers need so no server-side
// session storage is required.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	TokenType string `json:"token_type"`
}

// EmailClaims is the signed email-verification token. Validity can be
// checked without a database round trip, but consumption still requires a
// live VerificationToken row.
type EmailClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
}

type TokenManager struct {
	issuer       string
	audience     string
	sessionKey   []byte
	emailKey     []byte
	signingAlg   *jwt.SigningMethodHMAC
	validMethods []string
}

func NewTokenManager(issuer, audience, sessionSecret, emailSecret string) *TokenManager {
	return &TokenManager{
		issuer:       issuer,
		audience:     audience,
		sessionKey:   []byte(sessionSecret),
		emailKey:     []byte(emailSecret),
		signingAlg:   jwt.SigningMethodHS256,
		validMethods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

func (m *TokenManager) SignSession(userID, email, name, image string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		Name:      name,
		Image:     image,
		TokenType: "session",
	}
	return jwt.NewWithClaims(m.signingAlg, claims).SignedString(m.sessionKey)
}

func (m *TokenManager) ParseSession(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(raw, claims, m.sessionKey); err != nil {
		return nil, err
	}
	if claims.TokenType != "session" || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *TokenManager) SignEmailToken(email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &EmailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		TokenType: "verify_email",
	}
	return jwt.NewWithClaims(m.signingAlg, claims).SignedString(m.emailKey)
}

func (m *TokenManager) ParseEmailToken(raw string) (*EmailClaims, error) {
	claims := &EmailClaims{}
	if err := m.parse(raw, claims, m.emailKey); err != nil {
		return nil, err
	}
	if claims.TokenType != "verify_email" || claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *TokenManager) parse(raw string, claims jwt.Claims, key []byte) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	},
		jwt.WithValidMethods(m.validMethods),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
