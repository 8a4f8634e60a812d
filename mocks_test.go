package nippo_test

import "fmt"

type mockIdentity struct {
	id          string
	username    string
	displayName string
}

func (m mockIdentity) ID() string          { return m.id }
func (m mockIdentity) Username() string    { return m.username }
func (m mockIdentity) DisplayName() string { return m.displayName }

type mockConfig struct {
	signingKey      string
	contextKey      string
	cookieName      string
	tokenExpiration int
	issuer          string
	bcryptCost      int
}

func (m mockConfig) GetSigningKey() string   { return m.signingKey }
func (m mockConfig) GetContextKey() string   { return m.contextKey }
func (m mockConfig) GetCookieName() string   { return m.cookieName }
func (m mockConfig) GetTokenExpiration() int { return m.tokenExpiration }
func (m mockConfig) GetIssuer() string       { return m.issuer }
func (m mockConfig) GetBcryptCost() int      { return m.bcryptCost }

// testLogger keeps log output out of test runs but records messages so
// individual tests can assert on them when they care.
type testLogger struct {
	messages []string
}

func (l *testLogger) record(level, format string, args ...any) {
	l.messages = append(l.messages, level+" "+fmt.Sprintf(format, args...))
}

func (l *testLogger) Debug(format string, args ...any) { l.record("DBG", format, args...) }
func (l *testLogger) Info(format string, args ...any)  { l.record("INF", format, args...) }
func (l *testLogger) Warn(format string, args ...any)  { l.record("WRN", format, args...) }
func (l *testLogger) Error(format string, args ...any) { l.record("ERR", format, args...) }
