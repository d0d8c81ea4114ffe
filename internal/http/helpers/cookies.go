// Package helpers holds small HTTP utilities shared by middlewares and controllers.
package helpers

import (
	"net/http"
	"strings"
	"time"
)

func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name     string
	Domain   string
	SameSite string
	Secure   bool
	TTL      time.Duration
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return "sid"
	}
	return c.Name
}

// Build returns the session cookie carrying value. It is always HttpOnly.
func (c CookieConfig) Build(value string) *http.Cookie {
	ck := &http.Cookie{
		Name:     c.name(),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: ParseSameSite(c.SameSite),
	}
	if strings.TrimSpace(c.Domain) != "" {
		ck.Domain = c.Domain
	}
	if c.TTL > 0 {
		ck.Expires = time.Now().Add(c.TTL).UTC()
		ck.MaxAge = int(c.TTL.Seconds())
	}
	return ck
}

// Clear returns a cookie that makes the browser drop the session cookie.
func (c CookieConfig) Clear() *http.Cookie {
	ck := c.Build("")
	ck.Expires = time.Unix(0, 0).UTC()
	ck.MaxAge = -1
	return ck
}

// Read returns the session cookie value, or "" if absent.
func (c CookieConfig) Read(r *http.Request) string {
	ck, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(ck.Value)
}
