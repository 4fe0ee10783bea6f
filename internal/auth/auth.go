// Package auth inspects the owner's bearer credential. The client never
// issues or verifies tokens; the signing key lives server-side. Decoding
// without verification is enough to surface who the credential belongs to
// and when it runs out.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the decoded, unverified view of a bearer token.
type Credential struct {
	Subject   string
	ShopID    string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// Inspect decodes the JWT claims without checking the signature.
func Inspect(raw string) (Credential, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Credential{}, fmt.Errorf("decode credential: %w", err)
	}

	cred := Credential{
		Subject: stringClaim(claims, "sub"),
		ShopID:  stringClaim(claims, "shopId", "shop_id", "shopID"),
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		cred.ExpiresAt = exp.Time
	}
	if cred.Subject == "" {
		cred.Subject = stringClaim(claims, "email", "username", "name")
	}

	return cred, nil
}

// Expired reports whether the credential's expiry has passed. Tokens
// without an expiry never expire client-side; the server still decides.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
