package sts

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// maxTokenLength bounds the raw compact-form token size accepted before any
// parsing is attempted (spec.md §4.5 verify step 1).
const maxTokenLength = 8192

const (
	tokenVersion = "1.1"
	tokenType    = "sts-session"
)

// Claims is the bit-exact STS session-token payload (spec.md §4.5).
type Claims struct {
	UUID         string `json:"uuid"`
	RoleArn      string `json:"roleArn"`
	SessionName  string `json:"sessionName"`
	TokenType    string `json:"tokenType"`
	TokenVersion string `json:"tokenVersion"`
	KeyID        string `json:"keyId"`
	jwt.RegisteredClaims
}

// Validate runs alongside the library's exp/nbf/iss/aud checks during
// jwt.ParseWithClaims, adding the tokenVersion/tokenType checks spec.md
// §4.5 verify step 3 requires.
func (c *Claims) Validate() error {
	if c.TokenVersion != tokenVersion {
		return ErrUnsupportedTokenVersion
	}
	if c.TokenType != tokenType {
		return ErrInvalidTokenType
	}
	return nil
}

// Generate issues a session token signed by the key store's current primary
// key (spec.md §4.5 "Issuance"). expires must be in the future.
func Generate(store *KeyStore, issuer, audience, uuid, roleArn, sessionName string, expires time.Time) (string, error) {
	now := time.Now()
	if !expires.After(now) {
		return "", ErrExpiresNotInFuture
	}

	primary, err := store.Primary()
	if err != nil {
		return "", err
	}

	claims := Claims{
		UUID:         uuid,
		RoleArn:      roleArn,
		SessionName:  sessionName,
		TokenType:    tokenType,
		TokenVersion: tokenVersion,
		KeyID:        primary.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = primary.ID
	return token.SignedString(primary.Secret)
}

// Verify runs the 8-step verification algorithm of spec.md §4.5 and returns
// the validated claims. issuer/audience are checked only when non-empty.
func Verify(store *KeyStore, tokenString, issuer, audience string) (*Claims, error) {
	if len(tokenString) > maxTokenLength {
		return nil, ErrTokenTooLarge
	}
	if strings.Count(tokenString, ".") != 2 {
		return nil, ErrInvalidFormat
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if !ok || c.KeyID == "" {
			return nil, ErrInvalidFormat
		}
		key, found := store.Lookup(c.KeyID)
		if !found {
			return nil, ErrKeyEvicted
		}
		return key.Secret, nil
	}, opts...)

	if err == nil {
		return claims, nil
	}
	return nil, translateVerifyError(err)
}

// translateVerifyError maps the library's (possibly joined) parse/validate
// error into the single sentinel spec.md §4.5/§7 requires callers see.
func translateVerifyError(err error) error {
	switch {
	case errors.Is(err, ErrKeyEvicted):
		return ErrKeyEvicted
	case errors.Is(err, ErrUnsupportedTokenVersion):
		return ErrUnsupportedTokenVersion
	case errors.Is(err, ErrInvalidTokenType):
		return ErrInvalidTokenType
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrInvalidAudience
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrInvalidFormat
	default:
		return ErrInvalidFormat
	}
}
