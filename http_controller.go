package nippo

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

var usernameRx = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Sessioner is the session surface the controllers need
type Sessioner interface {
	StartSession(ctx router.Context, identity Identity) (string, error)
	CurrentUser(ctx router.Context) (*SessionObject, error)
	EndSession(ctx router.Context)
}

// RouteRegistrar captures the router methods used by the controllers.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type AuthControllerRoutes struct {
	Signup string
	Login  string
	Logout string
	Me     string
}

// AuthController exposes the JSON auth endpoints
type AuthController struct {
	Debug    bool
	Logger   Logger
	Repo     RepositoryManager
	Routes   *AuthControllerRoutes
	Session  Sessioner
	Provider IdentityProvider
	Register *RegisterUserHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup: "/auth/signup",
			Login:  "/auth/login",
			Logout: "/auth/logout",
			Me:     "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Session == nil {
		panic("Missing SessionManager in auth controller...")
	}

	if c.Provider == nil {
		c.Provider = NewUserProvider(c.Repo.Users())
	}

	if c.Register == nil {
		c.Register = NewRegisterUserHandler(c.Repo)
	}

	return c
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthSession(session Sessioner) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Session = session
		return c
	}
}

func WithAuthProvider(provider IdentityProvider) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Provider = provider
		return c
	}
}

func WithAuthLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

func WithAuthRegisterHandler(h *RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = h
		return c
	}
}

// RegisterAuthRoutes mounts the auth endpoints
func RegisterAuthRoutes(app RouteRegistrar, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Signup, controller.Signup)
	app.Post(controller.Routes.Login, controller.Login)
	app.Post(controller.Routes.Logout, controller.Logout)
	app.Get(controller.Routes.Me, controller.Me)

	return controller
}

// SignupPayload is the signup request body
type SignupPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate will run validation rules
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(3, 20),
			validation.Match(usernameRx),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 100),
		),
		validation.Field(
			&r.DisplayName,
			validation.Length(0, 50),
		),
	)
}

func (a *AuthController) Signup(ctx router.Context) error {
	payload := new(SignupPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: %s", err)
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("signup validate payload: %s", err)
		return renderValidationError(ctx, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	user, err := a.Register.Execute(ctx.Context(), RegisterUserMessage{
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
		Password:    payload.Password,
	})
	if err != nil {
		a.Logger.Error("signup register user: %s", err)
		return renderError(ctx, err)
	}

	if _, err := a.Session.StartSession(ctx, identityFromUser(user)); err != nil {
		a.Logger.Error("signup start session: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"user":    user.Public(),
	})
}

// LoginPayload is the login request body
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		// a malformed login gets the same generic answer as a wrong one
		return renderError(ctx, ErrInvalidCredentials)
	}

	identity, err := a.Provider.VerifyIdentity(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Debug("login verify identity: %s", err)
		return renderError(ctx, err)
	}

	if _, err := a.Session.StartSession(ctx, identity); err != nil {
		a.Logger.Error("login start session: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":           identity.ID(),
			"username":     identity.Username(),
			"display_name": identity.DisplayName(),
		},
	})
}

func (a *AuthController) Logout(ctx router.Context) error {
	a.Session.EndSession(ctx)
	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}

func (a *AuthController) Me(ctx router.Context) error {
	session, err := a.Session.CurrentUser(ctx)
	if err != nil {
		return renderError(ctx, ErrNotAuthenticated)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user": map[string]any{
			"id":       session.GetUserID(),
			"username": session.GetUsername(),
		},
	})
}

// renderError maps rich errors onto the single JSON error shape
func renderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := statusForError(richErr)

	body := map[string]any{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return ctx.JSON(status, body)
}

func renderValidationError(ctx router.Context, err error) error {
	body := map[string]any{
		"error": "Validation failed",
	}

	if fields, ok := err.(validation.Errors); ok {
		details := map[string]string{}
		for name, ferr := range fields {
			details[name] = ferr.Error()
		}
		body["fields"] = details
	}

	return ctx.JSON(router.StatusBadRequest, body)
}

func statusForError(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		// invalid credentials and conflicts surface as plain 400s,
		// missing sessions as 401
		if richErr.Code == errors.CodeUnauthorized {
			return router.StatusUnauthorized
		}
		return router.StatusBadRequest
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryConflict:
		return router.StatusBadRequest
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryNotFound:
		return router.StatusNotFound
	default:
		return router.StatusInternalServerError
	}
}
