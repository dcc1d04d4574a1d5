// Package token issues the opaque credential pair bound to a session. Access
// tokens happen to be HS256 JWTs; nothing else in the core interprets their
// structure, it only carries them as bearer strings.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookline/internal/identity/models"
)

// AccessTokenClaims are the claims embedded in issued access tokens.
type AccessTokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Generator creates access and refresh tokens.
type Generator struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// NewGenerator constructs a token generator.
func NewGenerator(signingKey string, issuer string, tokenTTL time.Duration) *Generator {
	return &Generator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// AccessToken issues a signed access token for the user.
func (g *Generator) AccessToken(user *models.User) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	jti := hex.EncodeToString(b)
	now := time.Now()

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: string(user.UserType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(g.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    g.issuer,
			ID:        jti,
		},
	})

	signedToken, err := newToken.SignedString(g.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// RefreshToken issues an unstructured random refresh token.
func (g *Generator) RefreshToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
