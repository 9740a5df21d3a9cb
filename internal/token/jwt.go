package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/storefront-server/internal/model"
)

// Claims represents JWT claims identifying a browsing tab.
type Claims struct {
	jwt.RegisteredClaims
	TabID     string `json:"tab_id"`
	TokenType string `json:"typ"`
}

// JWT implements TabTokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TabTokenManager = (*JWT)(nil)

const typeTab = "tab"

// NewJWT creates a tab token manager. Tokens expire after ttl.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateTabToken signs a token carrying tabID.
func (j *JWT) GenerateTabToken(tabID string) (string, error) {
	if tabID == "" {
		return "", fmt.Errorf("tab id is empty")
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tabID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		TabID:     tabID,
		TokenType: typeTab,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign tab token: %w", err)
	}

	return tokenString, nil
}

// ParseTabToken validates a tab token and returns its tab id.
func (j *JWT) ParseTabToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse tab token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("tab token is invalid")
	}
	if claims.TokenType != typeTab {
		return "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.TabID == "" {
		return "", fmt.Errorf("tab token has no tab id")
	}
	return claims.TabID, nil
}
