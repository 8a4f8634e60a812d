package config

import (
	"fmt"
	"time"
)

// BaseConfig is the application configuration tree. Values load from
// config/app.json with environment overrides via the config container.
type BaseConfig struct {
	App         App         `json:"app" koanf:"app"`
	Server      Server      `json:"server" koanf:"server"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
}

type App struct {
	Name string `json:"name" koanf:"name"`
	Env  string `json:"env" koanf:"env"`
}

type Server struct {
	Addr string `json:"addr" koanf:"addr"`
}

type Auth struct {
	SigningKey           string `json:"signing_key" koanf:"signing_key"`
	ContextKey           string `json:"context_key" koanf:"context_key"`
	CookieName           string `json:"cookie_name" koanf:"cookie_name"`
	TokenExpirationHours int    `json:"token_expiration" koanf:"token_expiration"`
	Issuer               string `json:"issuer" koanf:"issuer"`
	BcryptCost           int    `json:"bcrypt_cost" koanf:"bcrypt_cost"`
}

type Persistence struct {
	Driver                string `json:"driver" koanf:"driver"`
	DSN                   string `json:"dsn" koanf:"dsn"`
	Debug                 bool   `json:"debug" koanf:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
}

func (a *BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}

	if a.Persistence.DSN == "" {
		return fmt.Errorf("persistence.dsn is required")
	}

	return nil
}

func (a *BaseConfig) GetApp() App {
	return a.App
}

func (a *BaseConfig) GetServer() Server {
	return a.Server
}

func (a *BaseConfig) GetAuth() Auth {
	return a.Auth
}

func (a *BaseConfig) GetPersistence() Persistence {
	return a.Persistence
}

func (a App) GetName() string {
	return a.Name
}

func (a App) GetEnv() string {
	return a.Env
}

func (s Server) GetAddr() string {
	if s.Addr == "" {
		return ":8787"
	}
	return s.Addr
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "session"
	}
	return a.ContextKey
}

func (a Auth) GetCookieName() string {
	if a.CookieName == "" {
		return "auth_token"
	}
	return a.CookieName
}

func (a Auth) GetTokenExpiration() int {
	if a.TokenExpirationHours == 0 {
		return 168
	}
	return a.TokenExpirationHours
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetBcryptCost() int {
	return a.BcryptCost
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	return p.DSN
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return time.Second * 5
	}

	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
