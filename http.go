package nippo

import (
	"time"

	"github.com/goliatone/go-router"
)

// SessionManager binds the token service to the session cookie. It is the
// only piece of the package that knows tokens travel in cookies.
type SessionManager struct {
	tokens         TokenService
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

// NewSessionManager creates a SessionManager using the configured cookie
// name and token expiration.
func NewSessionManager(tokens TokenService, cfg Config) *SessionManager {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &SessionManager{
		tokens:         tokens,
		cfg:            cfg,
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}
}

func (m SessionManager) GetCookieDuration() time.Duration {
	return m.cookieDuration
}

// StartSession generates a token for the identity and sets the session
// cookie. It returns the raw token so callers can expose it elsewhere.
func (m *SessionManager) StartSession(ctx router.Context, identity Identity) (string, error) {
	token, err := m.tokens.Generate(identity)
	if err != nil {
		m.Logger.Error("StartSession token error: %s", err)
		return "", err
	}

	m.setCookieToken(ctx, token, m.cookieDuration)
	return token, nil
}

// CurrentUser resolves the session cookie into a SessionObject. A missing
// cookie and a failed validation look the same to callers.
func (m *SessionManager) CurrentUser(ctx router.Context) (*SessionObject, error) {
	raw := ctx.Cookies(m.cfg.GetCookieName())
	if raw == "" {
		return nil, ErrUnableToFindSession
	}

	claims, err := m.tokens.Validate(raw)
	if err != nil {
		m.Logger.Debug("CurrentUser validate error: %s", err)
		return nil, ErrUnableToFindSession
	}

	return sessionFromAuthClaims(claims)
}

// EndSession clears the session cookie. Safe to call with no session.
func (m *SessionManager) EndSession(ctx router.Context) {
	m.cookieDel(ctx, m.cfg.GetCookieName())
}

func (m *SessionManager) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     m.cfg.GetCookieName(),
		Value:    val,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

func (m *SessionManager) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}
