package sessionware_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"

	"github.com/nippoapp/nippo/middleware/sessionware"
)

type stubClaims struct {
	subject  string
	username string
}

func (s stubClaims) Subject() string     { return s.subject }
func (s stubClaims) UserID() string      { return s.subject }
func (s stubClaims) Username() string    { return s.username }
func (s stubClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (s stubClaims) IssuedAt() time.Time { return time.Now() }

type stubValidator struct {
	claims sessionware.AuthClaims
	err    error
	seen   []string
}

func (s *stubValidator) Validate(tokenString string) (sessionware.AuthClaims, error) {
	s.seen = append(s.seen, tokenString)
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func passthroughErrors(c router.Context, err error) error {
	return err
}

func TestSessionWare_CookieExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "user-123", username: "peda"}}

	handler := sessionware.New(sessionware.Config{
		TokenValidator: validator,
		ErrorHandler:   passthroughErrors,
	})(nil)

	// valid cookie
	ctx := router.NewMockContext()
	ctx.CookiesM["auth_token"] = "raw-token"
	ctx.On("Locals", "session", mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error for valid cookie: %v", err)
	}
	if !ctx.NextCalled {
		t.Errorf("expected NextCalled to be true, but got false")
	}
	if len(validator.seen) != 1 || validator.seen[0] != "raw-token" {
		t.Errorf("expected validator to see raw-token, got %v", validator.seen)
	}

	// missing cookie
	ctx = router.NewMockContext()
	err := handler(ctx)
	if err == nil {
		t.Fatal("expected error for missing cookie, got nil")
	}
	if !errors.Is(err, sessionware.ErrMissingOrMalformed) {
		t.Errorf("expected missing token error, got: %v", err)
	}
}

func TestSessionWare_ValidationFailure(t *testing.T) {
	wantErr := errors.New("token expired")
	validator := &stubValidator{err: wantErr}

	handler := sessionware.New(sessionware.Config{
		TokenValidator: validator,
		ErrorHandler:   passthroughErrors,
	})(nil)

	ctx := router.NewMockContext()
	ctx.CookiesM["auth_token"] = "stale-token"

	err := handler(ctx)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected validation error to pass through, got: %v", err)
	}
	if ctx.NextCalled {
		t.Errorf("expected NextCalled to be false after a failed validation")
	}
}

func TestSessionWare_DefaultErrorHandler(t *testing.T) {
	validator := &stubValidator{err: errors.New("boom")}

	handler := sessionware.New(sessionware.Config{
		TokenValidator: validator,
	})(nil)

	ctx := router.NewMockContext()
	ctx.CookiesM["auth_token"] = "bad-token"
	ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("default error handler should swallow the error, got: %v", err)
	}
	ctx.AssertExpectations(t)
}

func TestSessionWare_Filter(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "user-123"}}

	handler := sessionware.New(sessionware.Config{
		TokenValidator: validator,
		ErrorHandler:   passthroughErrors,
		Filter: func(c router.Context) bool {
			return true
		},
	})(nil)

	ctx := router.NewMockContext()

	if err := handler(ctx); err != nil {
		t.Fatalf("filtered requests should skip verification, got: %v", err)
	}
	if !ctx.NextCalled {
		t.Errorf("expected NextCalled to be true when filtered")
	}
	if len(validator.seen) != 0 {
		t.Errorf("validator should not run on filtered requests, saw %v", validator.seen)
	}
}

func TestSessionWare_CustomLookupAndContextKey(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "user-123", username: "peda"}}

	handler := sessionware.New(sessionware.Config{
		TokenValidator: validator,
		ErrorHandler:   passthroughErrors,
		ContextKey:     "current_session",
		TokenLookup:    "header:Authorization,cookie:session_cookie",
	})(nil)

	t.Run("header source", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("Bearer header-token")
		ctx.On("Locals", "current_session", mock.Anything).Return(nil)

		if err := handler(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("")
		ctx.CookiesM["session_cookie"] = "cookie-token"
		ctx.On("Locals", "current_session", mock.Anything).Return(nil)

		if err := handler(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGetExtractors(t *testing.T) {
	tests := []struct {
		name   string
		lookup string
		count  int
	}{
		{"single cookie", "cookie:auth_token", 1},
		{"cookie and header", "cookie:auth_token,header:Authorization", 2},
		{"with query", "cookie:auth_token, header:Authorization, query:token", 3},
		{"malformed parts are skipped", "cookie,header:Authorization", 1},
		{"unknown sources are skipped", "body:token", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sessionware.GetExtractors(tc.lookup)
			if len(got) != tc.count {
				t.Errorf("expected %d extractors, got %d", tc.count, len(got))
			}
		})
	}
}
