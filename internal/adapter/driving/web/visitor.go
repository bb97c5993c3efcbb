package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	visitorCookieName = "formpanel_visitor"
	visitorIssuer     = "formpanel"
	visitorTTL        = 30 * 24 * time.Hour
)

var errEmptySubject = errors.New("visitor token has no subject")

// VisitorTokens signs and verifies the visitor cookie. The token only carries a
// random visitor ID used to key view state; it grants nothing.
type VisitorTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewVisitorTokens creates a VisitorTokens signing with HS256 under key.
func NewVisitorTokens(key []byte) *VisitorTokens {
	return &VisitorTokens{key: key, ttl: visitorTTL, now: time.Now}
}

// Issue returns a signed token whose subject is visitorID.
func (v *VisitorTokens) Issue(visitorID string) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		Issuer:    visitorIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("sign visitor token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its visitor ID.
func (v *VisitorTokens) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(visitorIssuer),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse visitor token: %w", err)
	}
	if claims.Subject == "" {
		return "", errEmptySubject
	}
	return claims.Subject, nil
}

// visitorID returns the visitor ID from a valid cookie, or mints a new visitor
// and sets the cookie on the response.
func (v *VisitorTokens) visitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(visitorCookieName); err == nil && cookie.Value != "" {
		if id, err := v.Parse(cookie.Value); err == nil {
			return id, nil
		}
	}

	id := uuid.NewString()
	token, err := v.Issue(id)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(v.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
