package dto

import (
	"strings"

	"github.com/spec-kit/authgate/internal/domain"
)

// CredentialsForm is the login and registration submission. Either email or
// username may carry the account email.
type CredentialsForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Identifier returns the trimmed email, falling back to username.
func (f CredentialsForm) Identifier() string {
	if email := strings.TrimSpace(f.Email); email != "" {
		return email
	}
	return strings.TrimSpace(f.Username)
}

// PageField describes one input of a form page.
type PageField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FormPage describes a form the client renders.
type FormPage struct {
	Title  string      `json:"title"`
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []PageField `json:"fields"`
}

// CredentialFields are the inputs of the login and register forms.
var CredentialFields = []PageField{
	{Name: "email", Type: "email", Required: true},
	{Name: "password", Type: "password", Required: true},
}

// DashboardResponse greets the authenticated caller.
type DashboardResponse struct {
	Message     string `json:"message"`
	DisplayName string `json:"display_name"`
}

// ProfileResponse exposes the identity resolved by the session gate.
type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewProfileResponse maps an identity.
func NewProfileResponse(identity domain.Identity) ProfileResponse {
	return ProfileResponse{ID: identity.UserID, Email: identity.Email}
}
