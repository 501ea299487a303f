package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a child account going through the activation flow.
// The password hash and the outstanding verification code never leave
// the service.
type User struct {
	ID                    uuid.UUID   `json:"id"`
	Username              string      `json:"username"`
	Email                 string      `json:"email"`
	PasswordHash          string      `json:"-"`
	IsEmailVerified       bool        `json:"is_email_verified"`
	EmailVerificationCode string      `json:"-"`
	CodeIssuedAt          null.Time   `json:"-"`
	ParentEmail           null.String `json:"parent_email,omitempty"`
	ChefStarName          null.String `json:"chef_star_name,omitempty"`
	AgeGroup              null.String `json:"age_group,omitempty"`
	IsParentApproved      bool        `json:"is_parent_approved"`
	VerificationToken     uuid.UUID   `json:"-"`
	TokenVersion          int         `json:"-"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// RegisterInput represents input for account registration
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	ChefStarName    string `json:"chef_star_name"`
	AgeGroup        string `json:"age_group"`
	ParentEmail     string `json:"parent_email"`
}

// VerifyEmailInput represents input for code verification
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResendCodeInput represents input for code reissue
type ResendCodeInput struct {
	Email string `json:"email" binding:"required,email"`
}

// SubmitParentInput represents the child's consent submission
type SubmitParentInput struct {
	ParentEmail string `json:"parent_email" binding:"required,email"`
	StarName    string `json:"star_name"`
	AgeGroup    string `json:"age_group"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Credentials carries the tokens a client receives after a successful
// login or verification. Minting is best-effort, so any field may be
// empty when the corresponding issuer failed.
type Credentials struct {
	Token        string `json:"token,omitempty"`
	AccessToken  string `json:"access,omitempty"`
	RefreshToken string `json:"refresh,omitempty"`
}

// AuthResult pairs an account with its freshly issued credentials.
type AuthResult struct {
	User        *User
	Credentials Credentials
}
