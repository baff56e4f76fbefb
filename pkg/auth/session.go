package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smallwonder/storefront-api/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MemberClaims is the typed session token the commerce backend mints after
// its OAuth flow. The storefront only verifies it; it never issues tokens.
type MemberClaims struct {
	MemberID  string `json:"member_id"`
	ContactID string `json:"contact_id,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseMemberToken validates the session token string and returns typed claims.
func ParseMemberToken(cfg config.SessionConfig, tokenString string) (*MemberClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	claims := &MemberClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.MemberID == "" {
		return nil, fmt.Errorf("session token missing member id")
	}

	return claims, nil
}
