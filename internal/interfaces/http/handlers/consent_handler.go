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
	"github.com/alam0164088/chef-star/internal/usecases"
)

const htmlContentType = "text/html; charset=utf-8"

// ConsentService covers the parental consent flow.
type ConsentService interface {
	SubmitParent(ctx context.Context, userID uuid.UUID, input *entities.SubmitParentInput, linkBase string) (*usecases.ConsentResult, error)
	ApproveParent(ctx context.Context, token uuid.UUID, parentEmail string) (*entities.User, bool, error)
}

// ConsentHandler handles the parental consent endpoints
type ConsentHandler struct {
	consents ConsentService
	// baseURL overrides the request-derived scheme/host in approval
	// links when non-empty.
	baseURL string
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(consents ConsentService, baseURL string) *ConsentHandler {
	return &ConsentHandler{
		consents: consents,
		baseURL:  baseURL,
	}
}

// SubmitParent records the parent contact and sends the approval link
// POST /users/submit-parent
func (h *ConsentHandler) SubmitParent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.SubmitParentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.consents.SubmitParent(c.Request.Context(), userID, &input, h.linkBase(c))
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			response.Error(c, domainerrors.NotFound("user not found"))
		case errors.Is(err, domainerrors.ErrEmailNotVerified):
			response.Error(c, domainerrors.Forbidden("email not verified"))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":             result.User.ID,
		"username":       result.User.Username,
		"chef_star_name": result.User.ChefStarName.Ptr(),
		"age_group":      result.User.AgeGroup.Ptr(),
		"parent_email":   result.User.ParentEmail.Ptr(),
		"email_preview":  result.Preview,
		"send_status":    result.SendStatus,
	})
}

// ApproveParent is the browser-facing approval link target
// GET /users/approve-parent/:token?email=
func (h *ConsentHandler) ApproveParent(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.Data(http.StatusNotFound, htmlContentType, []byte("<h2>Not found</h2>"))
		return
	}

	_, alreadyApproved, err := h.consents.ApproveParent(c.Request.Context(), token, c.Query("email"))
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			c.Data(http.StatusNotFound, htmlContentType, []byte("<h2>Not found</h2>"))
		case errors.Is(err, domainerrors.ErrParentEmailMismatch):
			c.Data(http.StatusBadRequest, htmlContentType, []byte("<h2>Parent email mismatch</h2>"))
		default:
			c.Data(http.StatusInternalServerError, htmlContentType, []byte("<h2>Something went wrong</h2>"))
		}
		return
	}

	if alreadyApproved {
		c.Data(http.StatusOK, htmlContentType,
			[]byte("<h2>Already approved</h2><p>This account is already approved by the parent.</p>"))
		return
	}

	c.Data(http.StatusOK, htmlContentType,
		[]byte("<h2>Thank you</h2><p>Parent approval recorded. The account is now unlocked and the child can log in.</p>"))
}

// linkBase resolves the scheme://host prefix for approval links from
// config, falling back to the incoming request.
func (h *ConsentHandler) linkBase(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
