// Package session turns a user id into the value of the pictorial-session
// cookie and back.
//
// PlainCodec stores the raw decimal id. It is unsigned and never expires, so
// anyone can forge a session for any id; it exists for compatibility with
// cookies issued by earlier deployments. JWTCodec signs the id with HS256 and
// adds an expiry, and is used whenever a session secret is configured.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "pictorial-session"

var ErrInvalidSession = errors.New("invalid session")

type Codec interface {
	Encode(userID int64) (string, error)
	Decode(value string) (int64, error)
	// MaxAge is the cookie lifetime; zero means a browser-session cookie.
	MaxAge() time.Duration
}

type PlainCodec struct{}

func (PlainCodec) Encode(userID int64) (string, error) {
	return strconv.FormatInt(userID, 10), nil
}

func (PlainCodec) Decode(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSession
	}
	return id, nil
}

func (PlainCodec) MaxAge() time.Duration { return 0 }

type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *JWTCodec) Encode(userID int64) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(value string) (int64, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}

	return PlainCodec{}.Decode(claims.Subject)
}

func (c *JWTCodec) MaxAge() time.Duration { return c.ttl }

// NewCodec picks the signed codec when a secret is configured.
func NewCodec(secret string, ttl time.Duration) Codec {
	if secret == "" {
		return PlainCodec{}
	}
	return NewJWTCodec(secret, ttl)
}

// NewCookie builds the http-only session cookie for an encoded value.
func NewCookie(value string, maxAge time.Duration, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
		cookie.Expires = time.Now().Add(maxAge)
	}
	return cookie
}

// ExpiredCookie deletes the session cookie on the client.
func ExpiredCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
