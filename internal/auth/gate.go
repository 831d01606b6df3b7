package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/observability"
)

// Decision is the outcome of a gate check: either an allowed identity or a
// redirect target.
type Decision struct {
	Identity   *domain.Identity
	RedirectTo string
}

// Allow grants access to identity.
func Allow(identity domain.Identity) Decision {
	return Decision{Identity: &identity}
}

// DenyRedirect refuses access and sends the caller to target.
func DenyRedirect(target string) Decision {
	return Decision{RedirectTo: target}
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Identity != nil
}

// GateConfig configures cookie handling and the deny target.
type GateConfig struct {
	CookieName   string
	CookieSecure bool
	LoginPath    string
}

// Gate authorizes protected routes from a session cookie.
type Gate struct {
	strategy  SessionStrategy
	cookies   CookiePolicy
	loginPath string
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewGate builds a gate around the given resolution strategy.
func NewGate(strategy SessionStrategy, cfg GateConfig, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName(strategy)
	}
	return &Gate{
		strategy: strategy,
		cookies: CookiePolicy{
			Name:   cfg.CookieName,
			TTL:    strategy.TTL(),
			Secure: cfg.CookieSecure,
		},
		loginPath: cfg.LoginPath,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock replaces the time source used by the fiber helpers.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// LoginPath is where denied requests are redirected.
func (g *Gate) LoginPath() string {
	return g.loginPath
}

// CookieName is the name of the session cookie.
func (g *Gate) CookieName() string {
	return g.cookies.Name
}

// Check decides access for a cookie value at the given time.
// Resolution errors deny access.
func (g *Gate) Check(ctx context.Context, cookieValue string, now time.Time) Decision {
	if cookieValue == "" {
		return DenyRedirect(g.loginPath)
	}
	identity, err := g.strategy.Resolve(ctx, cookieValue, now)
	if err != nil {
		g.logger.Error("session resolution failed",
			zap.String("strategy", g.strategy.Name()),
			zap.Error(err),
		)
		return DenyRedirect(g.loginPath)
	}
	if identity == nil {
		return DenyRedirect(g.loginPath)
	}
	return Allow(*identity)
}
