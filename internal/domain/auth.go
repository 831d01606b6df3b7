package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/authgate/pkg/util/errorutil"
)

// FailureReason enumerates why an auth operation was rejected.
type FailureReason string

const (
	ReasonInvalidEmailFormat FailureReason = "InvalidEmailFormat"
	ReasonWeakPassword       FailureReason = "WeakPassword"
	ReasonDuplicateUser      FailureReason = "DuplicateUser"
	ReasonInvalidCredentials FailureReason = "InvalidCredentials"
	ReasonMissingField       FailureReason = "MissingField"
	ReasonServerError        FailureReason = "ServerError"
)

// User-facing messages per reason.
const (
	MessageInvalidEmailFormat = "email address is not valid"
	MessageWeakPassword       = "password must be at least 8 characters and include an uppercase letter, a lowercase letter and a digit"
	MessagePasswordTooLong    = "password must be at most 72 bytes long"
	MessageDuplicateUser      = "an account with this email already exists"
	MessageInvalidCredentials = "invalid email or password"
	MessageMissingField       = "email and password are required"
	MessageServerError        = "something went wrong, please try again later"
)

// AuthResult is the tagged outcome of Register and Login.
// Exactly one of User (success) or Reason (failure) is meaningful.
type AuthResult struct {
	User    PublicUser
	Reason  FailureReason
	Message string
	Fields  []string
}

// Success builds a successful result.
func Success(user PublicUser) AuthResult {
	return AuthResult{User: user}
}

// Failure builds a failed result with the default message for reason.
func Failure(reason FailureReason) AuthResult {
	return AuthResult{Reason: reason, Message: reason.Message()}
}

// OK reports whether the result is a success.
func (r AuthResult) OK() bool {
	return r.Reason == ""
}

// Err converts a failure into a DomainError carrying its HTTP status.
// It returns nil for successful results.
func (r AuthResult) Err() error {
	if r.OK() {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = r.Reason.Message()
	}
	switch r.Reason {
	case ReasonInvalidEmailFormat:
		return apperrors.NewInvalidEmailFormat(msg)
	case ReasonWeakPassword:
		return apperrors.NewWeakPassword(msg)
	case ReasonDuplicateUser:
		return apperrors.NewDuplicateUser(msg)
	case ReasonInvalidCredentials:
		return apperrors.NewInvalidCredentials(msg)
	case ReasonMissingField:
		return apperrors.NewMissingField(msg, r.Fields)
	default:
		return apperrors.NewInternalError(nil)
	}
}

// Message returns the user-facing text for the reason.
func (f FailureReason) Message() string {
	switch f {
	case ReasonInvalidEmailFormat:
		return MessageInvalidEmailFormat
	case ReasonWeakPassword:
		return MessageWeakPassword
	case ReasonDuplicateUser:
		return MessageDuplicateUser
	case ReasonInvalidCredentials:
		return MessageInvalidCredentials
	case ReasonMissingField:
		return MessageMissingField
	default:
		return MessageServerError
	}
}

// Identity is the minimal caller description resolved by the session gate.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// DisplayName is the local part of the email.
func (i Identity) DisplayName() string {
	if at := strings.IndexByte(i.Email, '@'); at > 0 {
		return i.Email[:at]
	}
	return i.Email
}

// Session is a stored login session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the identity bound to the session.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Email: s.Email}
}
