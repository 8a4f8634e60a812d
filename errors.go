package nippo

import "github.com/goliatone/go-errors"

const (
	TextCodeEmptyPassword      = "auth_empty_password"
	TextCodePasswordMismatch   = "auth_password_mismatch"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeUsernameTaken      = "auth_username_taken"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeNotAuthenticated   = "auth_not_authenticated"
	TextCodeSessionNotFound    = "auth_session_not_found"
	TextCodeReportNotFound     = "journal_report_not_found"
	TextCodeEmojiNotFound      = "journal_emoji_not_found"
	TextCodeNotReportAuthor    = "journal_not_report_author"
	TextCodeNotEmojiOwner      = "journal_not_emoji_owner"
)

// ErrNoEmptyString is returned when an empty password is given for hashing.
var ErrNoEmptyString = errors.New("password cannot be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password does not match its hash.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("Invalid username or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrUsernameTaken is returned when the requested username already exists.
var ErrUsernameTaken = errors.New("Username already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for any token that fails verification for a
// reason other than expiry.
var ErrTokenMalformed = errors.New("token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthenticated is returned when a request carries no usable session.
var ErrNotAuthenticated = errors.New("Not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is returned when no session cookie is present or the
// cookie fails validation.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrReportNotFound is returned when a report id does not exist.
var ErrReportNotFound = errors.New("report not found", errors.CategoryNotFound).
	WithTextCode(TextCodeReportNotFound).
	WithCode(errors.CodeNotFound)

// ErrEmojiNotFound is returned when a custom emoji id does not exist.
var ErrEmojiNotFound = errors.New("custom emoji not found", errors.CategoryNotFound).
	WithTextCode(TextCodeEmojiNotFound).
	WithCode(errors.CodeNotFound)

// ErrNotReportAuthor is returned when a user edits a report they do not own.
var ErrNotReportAuthor = errors.New("report belongs to another user", errors.CategoryAuthz).
	WithTextCode(TextCodeNotReportAuthor).
	WithCode(errors.CodeForbidden)

// ErrNotEmojiOwner is returned when a user deletes an emoji they do not own.
var ErrNotEmojiOwner = errors.New("custom emoji belongs to another user", errors.CategoryAuthz).
	WithTextCode(TextCodeNotEmojiOwner).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError reports whether err carries the token expired text code.
func IsTokenExpiredError(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == TextCodeTokenExpired
	}
	return false
}

// IsMalformedError reports whether err carries the token malformed text code.
func IsMalformedError(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == TextCodeTokenMalformed
	}
	return false
}
