package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/interfaces/http/middleware"
	"github.com/alam0164088/chef-star/internal/usecases"
)

type consentServiceStub struct {
	submitFn  func(ctx context.Context, userID uuid.UUID, input *entities.SubmitParentInput, linkBase string) (*usecases.ConsentResult, error)
	approveFn func(ctx context.Context, token uuid.UUID, parentEmail string) (*entities.User, bool, error)
}

func (s *consentServiceStub) SubmitParent(ctx context.Context, userID uuid.UUID, input *entities.SubmitParentInput, linkBase string) (*usecases.ConsentResult, error) {
	return s.submitFn(ctx, userID, input, linkBase)
}

func (s *consentServiceStub) ApproveParent(ctx context.Context, token uuid.UUID, parentEmail string) (*entities.User, bool, error) {
	return s.approveFn(ctx, token, parentEmail)
}

func TestConsentHandler_SubmitParent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	h := NewConsentHandler(&consentServiceStub{
		submitFn: func(_ context.Context, id uuid.UUID, input *entities.SubmitParentInput, linkBase string) (*usecases.ConsentResult, error) {
			require.Equal(t, userID, id)
			require.Equal(t, "parent@x.com", input.ParentEmail)
			require.Equal(t, "https://chef-star.example", linkBase)
			return &usecases.ConsentResult{
				User: &entities.User{
					ID:          userID,
					Username:    "kid",
					ParentEmail: null.StringFrom(input.ParentEmail),
					AgeGroup:    null.StringFrom("10-15"),
				},
				Preview: usecases.EmailPreview{
					To:      []string{input.ParentEmail},
					Subject: "Please approve kid's account",
				},
				SendStatus: "sent",
			}, nil
		},
	}, "https://chef-star.example")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/submit-parent",
		strings.NewReader(`{"parent_email":"parent@x.com","age_group":"10-15 Years"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.UserIDKey, userID)
	h.SubmitParent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "sent", body["send_status"])
	assert.Equal(t, "parent@x.com", body["parent_email"])
	preview, ok := body["email_preview"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Please approve kid's account", preview["subject"])
}

func TestConsentHandler_SubmitParent_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewConsentHandler(&consentServiceStub{}, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/submit-parent",
		strings.NewReader(`{"parent_email":"parent@x.com"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.SubmitParent(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConsentHandler_SubmitParent_RequiresVerifiedEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewConsentHandler(&consentServiceStub{
		submitFn: func(context.Context, uuid.UUID, *entities.SubmitParentInput, string) (*usecases.ConsentResult, error) {
			return nil, domainerrors.ErrEmailNotVerified
		},
	}, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/submit-parent",
		strings.NewReader(`{"parent_email":"parent@x.com"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.UserIDKey, uuid.New())
	h.SubmitParent(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "email not verified", decodeBody(t, w)["message"])
}

func TestConsentHandler_SubmitParent_DerivesLinkBaseFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	var gotLinkBase string
	h := NewConsentHandler(&consentServiceStub{
		submitFn: func(_ context.Context, _ uuid.UUID, _ *entities.SubmitParentInput, linkBase string) (*usecases.ConsentResult, error) {
			gotLinkBase = linkBase
			return &usecases.ConsentResult{
				User:       &entities.User{ID: userID, Username: "kid"},
				SendStatus: "sent",
			}, nil
		},
	}, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "http://api.chef-star.test/users/submit-parent",
		strings.NewReader(`{"parent_email":"parent@x.com"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Forwarded-Proto", "https")
	c.Set(middleware.UserIDKey, userID)
	h.SubmitParent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://api.chef-star.test", gotLinkBase)
}

func approveRequest(t *testing.T, h *ConsentHandler, token, email string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	target := "/users/approve-parent/" + token
	if email != "" {
		target += "?email=" + email
	}
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}
	h.ApproveParent(c)
	return w
}

func TestConsentHandler_ApproveParent_Success(t *testing.T) {
	token := uuid.New()
	h := NewConsentHandler(&consentServiceStub{
		approveFn: func(_ context.Context, got uuid.UUID, parentEmail string) (*entities.User, bool, error) {
			require.Equal(t, token, got)
			require.Equal(t, "parent@x.com", parentEmail)
			return &entities.User{ID: uuid.New(), IsParentApproved: true}, false, nil
		},
	}, "")

	w := approveRequest(t, h, token.String(), "parent%40x.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h2>Thank you</h2>")
	assert.Contains(t, w.Body.String(), "the child can log in")
}

func TestConsentHandler_ApproveParent_AlreadyApproved(t *testing.T) {
	token := uuid.New()
	h := NewConsentHandler(&consentServiceStub{
		approveFn: func(context.Context, uuid.UUID, string) (*entities.User, bool, error) {
			return &entities.User{ID: uuid.New(), IsParentApproved: true}, true, nil
		},
	}, "")

	w := approveRequest(t, h, token.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Already approved</h2>")
}

func TestConsentHandler_ApproveParent_Mismatch(t *testing.T) {
	token := uuid.New()
	h := NewConsentHandler(&consentServiceStub{
		approveFn: func(context.Context, uuid.UUID, string) (*entities.User, bool, error) {
			return nil, false, domainerrors.ErrParentEmailMismatch
		},
	}, "")

	w := approveRequest(t, h, token.String(), "other%40x.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Parent email mismatch</h2>")
}

func TestConsentHandler_ApproveParent_UnknownToken(t *testing.T) {
	token := uuid.New()
	h := NewConsentHandler(&consentServiceStub{
		approveFn: func(context.Context, uuid.UUID, string) (*entities.User, bool, error) {
			return nil, false, domainerrors.ErrNotFound
		},
	}, "")

	w := approveRequest(t, h, token.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Not found</h2>")
}

func TestConsentHandler_ApproveParent_MalformedToken(t *testing.T) {
	h := NewConsentHandler(&consentServiceStub{}, "")

	w := approveRequest(t, h, "not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Not found</h2>")
}

func TestConsentHandler_ApproveParent_InternalError(t *testing.T) {
	token := uuid.New()
	h := NewConsentHandler(&consentServiceStub{
		approveFn: func(context.Context, uuid.UUID, string) (*entities.User, bool, error) {
			return nil, false, domainerrors.ErrDeliveryFailed
		},
	}, "")

	w := approveRequest(t, h, token.String(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Something went wrong</h2>")
}
