package nippo_test

import (
	"testing"
	"time"

	"github.com/nippoapp/nippo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionObjectGetters(t *testing.T) {
	issuedAt := time.Now()
	session := &nippo.SessionObject{
		UserID:   "8d2e2f49-7e3a-4bb2-9c47-4ffb17b577b0",
		Username: "peda",
		Issuer:   "nippo",
		IssuedAt: &issuedAt,
	}

	assert.Equal(t, "8d2e2f49-7e3a-4bb2-9c47-4ffb17b577b0", session.GetUserID())
	assert.Equal(t, "peda", session.GetUsername())
	assert.Equal(t, "nippo", session.GetIssuer())
	assert.Equal(t, &issuedAt, session.GetIssuedAt())

	id, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, "8d2e2f49-7e3a-4bb2-9c47-4ffb17b577b0", id.String())
}

func TestSessionObjectGetUserUUIDInvalid(t *testing.T) {
	session := &nippo.SessionObject{UserID: "not-a-uuid"}
	_, err := session.GetUserUUID()
	assert.Error(t, err)
}

func TestSessionObjectString(t *testing.T) {
	session := nippo.SessionObject{
		UserID:   "user-id",
		Username: "peda",
		Issuer:   "nippo",
	}
	out := session.String()
	assert.Contains(t, out, "user=user-id")
	assert.Contains(t, out, "username=peda")
	assert.Contains(t, out, "iss=nippo")
	assert.Contains(t, out, "iat=<nil>")
}
