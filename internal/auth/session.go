package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/devshare/internal/model"
)

// SessionCodec signs and verifies the persisted session value.
//
// The session pointer deliberately denormalizes the FULL user record (not
// just the ID) — that is the storage contract it inherited, and it is why a
// profile edit has to re-write the pointer. Wrapping the record in an
// HMAC-signed token means a hand-edited or corrupted session value is
// rejected at restore time instead of being trusted.
//
// Tokens carry no expiry: a session persists until explicit logout.
type SessionCodec struct {
	secret []byte
}

// NewSessionCodec creates a codec with the given signing secret.
// The secret should be at least 32 bytes of random data in production.
func NewSessionCodec(secret string) (*SessionCodec, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionCodec{secret: []byte(secret)}, nil
}

// sessionClaims embeds the denormalized user snapshot alongside the
// registered claims. Subject duplicates the user ID for quick matching
// without decoding the whole snapshot.
type sessionClaims struct {
	User model.User `json:"user"`
	jwt.RegisteredClaims
}

const issuer = "devshare"

// Encode signs a session token embedding the given user record.
func (c *SessionCodec) Encode(user *model.User) (string, error) {
	claims := sessionClaims{
		User: *user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// Decode verifies a session token and returns the embedded user record.
//
// Validation: HS256 signature (jwt.WithValidMethods blocks algorithm
// confusion) and issuer. Expiry is NOT required — sessions live until
// logout.
func (c *SessionCodec) Decode(tokenStr string) (*model.User, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid session claims")
	}
	if claims.User.ID == "" {
		return nil, errors.New("auth: session token has no user")
	}

	user := claims.User
	return &user, nil
}
