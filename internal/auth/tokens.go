// Package auth issues and verifies the bearer tokens used by the API and
// guards routes by role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleMember = "MEMBER"
	RoleStaff  = "STAFF"
)

const (
	issuer   = "gymflow-api"
	audience = "gymflow-clients"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Kind separates short-lived access tokens from refresh tokens; each kind is
// signed with its own key.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenKind = errors.New("wrong token kind")
	ErrMissingSecret  = errors.New("jwt secret cannot be empty")
)

// Identity is what a token says about its bearer.
type Identity struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type Claims struct {
	Identity
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

type Issuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer builds an Issuer. An empty refreshSecret reuses accessSecret and
// zero TTLs fall back to the defaults.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" {
		return nil, ErrMissingSecret
	}
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Issuer{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (i *Issuer) key(k Kind) []byte {
	if k == KindRefresh {
		return i.refreshKey
	}
	return i.accessKey
}

func (i *Issuer) sign(id Identity, k Kind, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Identity: id,
		Kind:     k,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   fmt.Sprint(id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key(k))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", k, err)
	}
	return signed, nil
}

func (i *Issuer) Access(id Identity) (string, error) {
	return i.sign(id, KindAccess, i.accessTTL)
}

// Pair issues a fresh access and refresh token for id.
func (i *Issuer) Pair(id Identity) (access, refresh string, err error) {
	if access, err = i.sign(id, KindAccess, i.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = i.sign(id, KindRefresh, i.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify parses raw and checks signature, issuer, audience, expiry and kind.
func (i *Issuer) Verify(raw string, want Kind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.key(want), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Kind != want {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}
