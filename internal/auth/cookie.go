package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// UsernameCookie is a client-readable display value. It is never used for authorization.
const UsernameCookie = "username"

// Default session cookie names per strategy.
const (
	DefaultSessionCookie = "session_id"
	DefaultTokenCookie   = "token"
)

func defaultCookieName(strategy SessionStrategy) string {
	if _, ok := strategy.(*TokenStrategy); ok {
		return DefaultTokenCookie
	}
	return DefaultSessionCookie
}

// CookiePolicy describes how the session cookie is written.
type CookiePolicy struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionCookie builds the HttpOnly, SameSite=Strict session cookie.
func (p CookiePolicy) SessionCookie(value string, expiresAt time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     p.Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(p.TTL.Seconds()),
		Secure:   p.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// DisplayCookie builds the cosmetic username cookie readable by scripts.
func (p CookiePolicy) DisplayCookie(value string, expiresAt time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     UsernameCookie,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(p.TTL.Seconds()),
		Secure:   p.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
