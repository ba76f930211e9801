package web

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

const (
	csrfCookieName = "stride_csrf"
	csrfFieldName  = "csrf_token"
	csrfMaxAge     = 12 * 60 * 60
)

var (
	ErrCSRFMissing  = errors.New("csrf token missing")
	ErrCSRFMismatch = errors.New("csrf token mismatch")
)

// CSRF issues and verifies double-submit tokens stored in a securecookie.
type CSRF struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewCSRF creates a CSRF guard. Empty keys are replaced with random ones, which invalidates
// outstanding tokens on restart. A non-empty blockKey must be 16, 24 or 32 bytes.
func NewCSRF(hashKey, blockKey []byte, secure bool) (*CSRF, error) {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
	}
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("csrf block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(csrfMaxAge)

	return &CSRF{codec: codec, secure: secure}, nil
}

func (c *CSRF) decode(r *http.Request) (string, error) {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return "", ErrCSRFMissing
	}

	var v map[string]string
	if err := c.codec.Decode(csrfCookieName, cookie.Value, &v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSRFMismatch, err)
	}
	if v["csrf"] == "" {
		return "", ErrCSRFMissing
	}
	return v["csrf"], nil
}

// Issue returns the token bound to the request's cookie, minting and setting a new cookie when there is none.
func (c *CSRF) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	if token, err := c.decode(r); err == nil {
		return token, nil
	}

	token := hex.EncodeToString(securecookie.GenerateRandomKey(32))
	encoded, err := c.codec.Encode(csrfCookieName, map[string]string{"csrf": token})
	if err != nil {
		return "", fmt.Errorf("failed to encode csrf cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})

	return token, nil
}

// Verify checks the csrf_token form field against the cookie. The form must already be parsed.
func (c *CSRF) Verify(r *http.Request) error {
	want, err := c.decode(r)
	if err != nil {
		return err
	}

	got := r.PostForm.Get(csrfFieldName)
	if got == "" {
		return ErrCSRFMissing
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return ErrCSRFMismatch
	}
	return nil
}
