package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/interfaces/http/middleware"
	"github.com/alam0164088/chef-star/internal/interfaces/http/response"
)

// AccountService covers registration, login and profile reads.
type AccountService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResult, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// VerificationService covers code verification and reissue.
type VerificationService interface {
	Verify(ctx context.Context, email, code string) (*entities.AuthResult, error)
	Resend(ctx context.Context, email string) (*entities.User, bool, error)
}

// AuthHandler handles the registration and authentication endpoints
type AuthHandler struct {
	accounts     AccountService
	verification VerificationService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts AccountService, verification VerificationService) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		verification: verification,
	}
}

// Register handles account creation
// POST /users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"message":  "successfully sent a verification mail",
	})
}

// VerifyEmail handles code submission
// POST /users/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input entities.VerifyEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.verification.Verify(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			response.Error(c, domainerrors.NotFound("user not found"))
		case errors.Is(err, domainerrors.ErrInvalidCode):
			response.Error(c, domainerrors.BadRequest("invalid code"))
		case errors.Is(err, domainerrors.ErrCodeExpired):
			response.Error(c, domainerrors.BadRequest("code expired"))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, authResultJSON(result))
}

// ResendCode handles code reissue
// POST /users/resend-code
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var input entities.ResendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, reissued, err := h.verification.Resend(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("user not found"))
			return
		}
		response.Error(c, err)
		return
	}

	if !reissued {
		response.Success(c, http.StatusOK, gin.H{
			"message": "your mail already verified",
		})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"subject":  "verification code resent",
	})
}

// Login handles user login
// POST /users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrInvalidCredentials):
			response.Error(c, domainerrors.Unauthorized("invalid credentials"))
		case errors.Is(err, domainerrors.ErrEmailNotVerified):
			response.Error(c, domainerrors.Forbidden("email not verified"))
		case errors.Is(err, domainerrors.ErrParentApprovalRequired):
			response.Error(c, domainerrors.Forbidden("parent approval required"))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, authResultJSON(result))
}

// GetProfile returns the authenticated account's own profile
// GET /users/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	user, err := h.accounts.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("user not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":                 user.ID,
		"username":           user.Username,
		"email":              user.Email,
		"chef_star_name":     user.ChefStarName.Ptr(),
		"age_group":          user.AgeGroup.Ptr(),
		"parent_email":       user.ParentEmail.Ptr(),
		"is_email_verified":  user.IsEmailVerified,
		"is_parent_approved": user.IsParentApproved,
	})
}

// authResultJSON shapes the credential payload. Token fields are
// omitted when minting failed (best-effort issuance).
func authResultJSON(result *entities.AuthResult) gin.H {
	resp := gin.H{
		"id":       result.User.ID,
		"username": result.User.Username,
		"email":    result.User.Email,
	}
	if result.Credentials.Token != "" {
		resp["token"] = result.Credentials.Token
	}
	if result.Credentials.AccessToken != "" {
		resp["access"] = result.Credentials.AccessToken
	}
	if result.Credentials.RefreshToken != "" {
		resp["refresh"] = result.Credentials.RefreshToken
	}
	return resp
}
