package usecases_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/infrastructure/mailer"
	"github.com/alam0164088/chef-star/internal/usecases"
	"github.com/alam0164088/chef-star/pkg/jwt"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newVerificationForTest(
	userRepo *MockUserRepository,
	m *MockMailer,
	tokens *MockBearerTokens,
) *usecases.VerificationUsecase {
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	creds := usecases.NewCredentialIssuer(tokens, jwtSvc)
	return usecases.NewVerificationUsecase(userRepo, m, creds, "noreply@test.local").
		WithClock(func() time.Time { return testNow })
}

func TestVerificationUsecase_IssueCode_ZeroPadsCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	m := new(MockMailer)
	uc := newVerificationForTest(userRepo, m, new(MockBearerTokens)).
		WithRand(func(n int) int { return 7 })

	user := &entities.User{ID: uuid.New(), Username: "kid", Email: "kid@x.com"}
	userRepo.On("Update", context.Background(), user).Return(nil).Once()

	var sent *mailer.Message
	m.On("Send", context.Background(), mock.AnythingOfType("*mailer.Message")).Return(nil).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Once()

	err := uc.IssueCode(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, "000007", user.EmailVerificationCode)
	assert.Equal(t, testNow, user.CodeIssuedAt.Time)
	assert.True(t, strings.Contains(sent.Text, "000007"))
	assert.Equal(t, "kid@x.com", sent.To)
}

func TestVerificationUsecase_Verify_UserNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newVerificationForTest(userRepo, new(MockMailer), new(MockBearerTokens))

	userRepo.On("GetByEmail", context.Background(), "missing@x.com").Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Verify(context.Background(), "missing@x.com", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationUsecase_Verify_AlreadyVerifiedReturnsFreshCredentials(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokens := new(MockBearerTokens)
	uc := newVerificationForTest(userRepo, new(MockMailer), tokens)

	userID := uuid.New()
	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(&entities.User{
		ID:              userID,
		Email:           "kid@x.com",
		IsEmailVerified: true,
	}, nil).Once()
	tokens.On("GetOrCreate", context.Background(), userID).Return("opaque-token", nil).Once()

	result, err := uc.Verify(context.Background(), "kid@x.com", "any-code")
	assert.NoError(t, err)
	assert.Equal(t, "opaque-token", result.Credentials.Token)
	assert.NotEmpty(t, result.Credentials.AccessToken)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVerificationUsecase_Verify_WrongCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newVerificationForTest(userRepo, new(MockMailer), new(MockBearerTokens))

	user := &entities.User{
		ID:                    uuid.New(),
		Email:                 "kid@x.com",
		EmailVerificationCode: "000123",
		CodeIssuedAt:          null.TimeFrom(testNow.Add(-time.Minute)),
	}
	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(user, nil).Twice()

	// Leading zeros are significant, "123" is not "000123".
	_, err := uc.Verify(context.Background(), "kid@x.com", "123")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCode)

	_, err = uc.Verify(context.Background(), "kid@x.com", "654321")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCode)

	assert.False(t, user.IsEmailVerified)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVerificationUsecase_Verify_ExpiredCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newVerificationForTest(userRepo, new(MockMailer), new(MockBearerTokens))

	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(&entities.User{
		ID:                    uuid.New(),
		Email:                 "kid@x.com",
		EmailVerificationCode: "000123",
		CodeIssuedAt:          null.TimeFrom(testNow.Add(-15*time.Minute - time.Second)),
	}, nil).Once()

	_, err := uc.Verify(context.Background(), "kid@x.com", "000123")
	assert.ErrorIs(t, err, domainerrors.ErrCodeExpired)
}

func TestVerificationUsecase_Verify_MissingIssueTimestampCountsAsExpired(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newVerificationForTest(userRepo, new(MockMailer), new(MockBearerTokens))

	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(&entities.User{
		ID:                    uuid.New(),
		Email:                 "kid@x.com",
		EmailVerificationCode: "000123",
	}, nil).Once()

	_, err := uc.Verify(context.Background(), "kid@x.com", "000123")
	assert.ErrorIs(t, err, domainerrors.ErrCodeExpired)
}

func TestVerificationUsecase_Verify_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokens := new(MockBearerTokens)
	uc := newVerificationForTest(userRepo, new(MockMailer), tokens)

	userID := uuid.New()
	user := &entities.User{
		ID:                    userID,
		Username:              "kid",
		Email:                 "kid@x.com",
		EmailVerificationCode: "000123",
		CodeIssuedAt:          null.TimeFrom(testNow.Add(-10 * time.Minute)),
	}
	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(user, nil).Once()
	userRepo.On("Update", context.Background(), user).Return(nil).Once()
	tokens.On("GetOrCreate", context.Background(), userID).Return("opaque-token", nil).Once()

	result, err := uc.Verify(context.Background(), "kid@x.com", "000123")
	assert.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	assert.Empty(t, user.EmailVerificationCode)
	assert.False(t, user.CodeIssuedAt.Valid)
	assert.Equal(t, "opaque-token", result.Credentials.Token)
	userRepo.AssertExpectations(t)
}

func TestVerificationUsecase_Resend_UserNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newVerificationForTest(userRepo, new(MockMailer), new(MockBearerTokens))

	userRepo.On("GetByEmail", context.Background(), "missing@x.com").Return(nil, domainerrors.ErrNotFound).Once()

	_, _, err := uc.Resend(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationUsecase_Resend_AlreadyVerifiedSkipsReissue(t *testing.T) {
	userRepo := new(MockUserRepository)
	m := new(MockMailer)
	uc := newVerificationForTest(userRepo, m, new(MockBearerTokens))

	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(&entities.User{
		ID:              uuid.New(),
		Email:           "kid@x.com",
		IsEmailVerified: true,
		TokenVersion:    2,
	}, nil).Once()

	user, reissued, err := uc.Resend(context.Background(), "kid@x.com")
	assert.NoError(t, err)
	assert.False(t, reissued)
	assert.Equal(t, 2, user.TokenVersion)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestVerificationUsecase_Resend_BumpsTokenVersionAndSendsCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	m := new(MockMailer)
	uc := newVerificationForTest(userRepo, m, new(MockBearerTokens)).
		WithRand(func(n int) int { return 42 })

	user := &entities.User{
		ID:           uuid.New(),
		Username:     "kid",
		Email:        "kid@x.com",
		TokenVersion: 3,
	}
	userRepo.On("GetByEmail", context.Background(), "kid@x.com").Return(user, nil).Once()
	userRepo.On("Update", context.Background(), user).Return(nil).Once()
	m.On("Send", context.Background(), mock.AnythingOfType("*mailer.Message")).Return(nil).Once()

	got, reissued, err := uc.Resend(context.Background(), "kid@x.com")
	assert.NoError(t, err)
	assert.True(t, reissued)
	assert.Equal(t, 4, got.TokenVersion)
	assert.Equal(t, "000042", got.EmailVerificationCode)
	assert.Equal(t, testNow, got.CodeIssuedAt.Time)
}
