package nippo_test

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/nippoapp/nippo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorShape(t *testing.T) {
	cases := []struct {
		name     string
		err      *errors.Error
		category errors.Category
		textCode string
	}{
		{"invalid credentials", nippo.ErrInvalidCredentials, errors.CategoryAuth, nippo.TextCodeInvalidCredentials},
		{"username taken", nippo.ErrUsernameTaken, errors.CategoryConflict, nippo.TextCodeUsernameTaken},
		{"token expired", nippo.ErrTokenExpired, errors.CategoryAuth, nippo.TextCodeTokenExpired},
		{"token malformed", nippo.ErrTokenMalformed, errors.CategoryAuth, nippo.TextCodeTokenMalformed},
		{"not authenticated", nippo.ErrNotAuthenticated, errors.CategoryAuth, nippo.TextCodeNotAuthenticated},
		{"session not found", nippo.ErrUnableToFindSession, errors.CategoryAuth, nippo.TextCodeSessionNotFound},
		{"report not found", nippo.ErrReportNotFound, errors.CategoryNotFound, nippo.TextCodeReportNotFound},
		{"not report author", nippo.ErrNotReportAuthor, errors.CategoryAuthz, nippo.TextCodeNotReportAuthor},
		{"not emoji owner", nippo.ErrNotEmojiOwner, errors.CategoryAuthz, nippo.TextCodeNotEmojiOwner},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.category, tc.err.Category)
			assert.Equal(t, tc.textCode, tc.err.TextCode)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestCredentialErrorsShareOneMessage(t *testing.T) {
	// the login surface must not leak which half of the pair was wrong
	assert.Equal(t, "Invalid username or password", nippo.ErrInvalidCredentials.Message)
}

func TestTokenErrorPredicates(t *testing.T) {
	t.Run("matches direct sentinels", func(t *testing.T) {
		assert.True(t, nippo.IsTokenExpiredError(nippo.ErrTokenExpired))
		assert.True(t, nippo.IsMalformedError(nippo.ErrTokenMalformed))
	})

	t.Run("matches wrapped sentinels", func(t *testing.T) {
		wrapped := errors.Wrap(
			fmt.Errorf("signature is invalid"),
			nippo.ErrTokenMalformed.Category,
			nippo.ErrTokenMalformed.Message,
		).WithTextCode(nippo.ErrTokenMalformed.TextCode)

		assert.True(t, nippo.IsMalformedError(wrapped))
		assert.False(t, nippo.IsTokenExpiredError(wrapped))
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		err := fmt.Errorf("boom")
		assert.False(t, nippo.IsTokenExpiredError(err))
		assert.False(t, nippo.IsMalformedError(err))
	})
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", nippo.ErrInvalidCredentials)
	require.ErrorIs(t, wrapped, nippo.ErrInvalidCredentials)
}
