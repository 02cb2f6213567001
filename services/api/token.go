package apisvc

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
)

// TokenClaims are the claims the dashboard reads from an API token.
type TokenClaims struct {
	UserID    string
	Name      string
	Email     string
	Role      school.Role
	ExpiresAt time.Time // zero when the token has no expiry
}

type apiClaims struct {
	jwt.RegisteredClaims
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   school.Role `json:"role"`
}

// ParseTokenClaims reads the claims of token without verifying its signature:
// the API is the only party able to verify it, and does so on every request.
func ParseTokenClaims(token string) (TokenClaims, error) {
	var claims apiClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, errors.Wrap(err, "parsing token claims")
	}
	tc := TokenClaims{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if tc.UserID == "" {
		tc.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}
