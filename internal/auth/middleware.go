package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/authgate/internal/domain"
)

const identityKey = "auth_identity"

// Handle enforces the gate on protected routes. Denied requests are redirected
// to the login path with 302 Found.
func (g *Gate) Handle(c *fiber.Ctx) error {
	decision := g.Check(c.UserContext(), c.Cookies(g.cookies.Name), g.now())
	if !decision.Allowed() {
		g.metrics.RecordGate("deny")
		return c.Redirect(decision.RedirectTo, fiber.StatusFound)
	}
	g.metrics.RecordGate("allow")
	c.Locals(identityKey, decision.Identity)
	return c.Next()
}

// Current resolves the caller without enforcing anything.
func (g *Gate) Current(c *fiber.Ctx) (*domain.Identity, bool) {
	decision := g.Check(c.UserContext(), c.Cookies(g.cookies.Name), g.now())
	return decision.Identity, decision.Allowed()
}

// Issue starts a session for user and writes the session and display cookies.
func (g *Gate) Issue(c *fiber.Ctx, user domain.PublicUser) error {
	token, expiresAt, err := g.strategy.Issue(c.UserContext(), user, g.now())
	if err != nil {
		return err
	}
	c.Cookie(g.cookies.SessionCookie(token, expiresAt))
	c.Cookie(g.cookies.DisplayCookie(user.Email, expiresAt))
	return nil
}

// IdentityFromContext retrieves the identity stored by Handle.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
