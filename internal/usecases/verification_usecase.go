package usecases

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/domain/repositories"
	"github.com/alam0164088/chef-star/internal/infrastructure/mailer"
	"github.com/alam0164088/chef-star/pkg/logger"
)

// CodeTTL is how long a verification code stays valid after issuance.
const CodeTTL = 15 * time.Minute

// VerificationUsecase owns one-time code issuance, verification and
// resend. Clock and randomness are injectable so tests can pin both.
type VerificationUsecase struct {
	userRepo repositories.UserRepository
	mailer   mailer.Mailer
	creds    *CredentialIssuer
	from     string

	now     func() time.Time
	randInt func(n int) int
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	userRepo repositories.UserRepository,
	m mailer.Mailer,
	creds *CredentialIssuer,
	from string,
) *VerificationUsecase {
	return &VerificationUsecase{
		userRepo: userRepo,
		mailer:   m,
		creds:    creds,
		from:     from,
		now:      time.Now,
		randInt:  rand.Intn,
	}
}

// WithClock overrides the time source (for tests).
func (u *VerificationUsecase) WithClock(now func() time.Time) *VerificationUsecase {
	u.now = now
	return u
}

// WithRand overrides the randomness source (for tests).
func (u *VerificationUsecase) WithRand(randInt func(n int) int) *VerificationUsecase {
	u.randInt = randInt
	return u
}

func (u *VerificationUsecase) generateCode() string {
	return fmt.Sprintf("%06d", u.randInt(1000000))
}

// IssueCode generates a fresh 6-digit code, persists it with the
// issuance timestamp, and emails it. A send failure surfaces as a
// delivery error because the stored code would otherwise be unreachable
// by the user.
func (u *VerificationUsecase) IssueCode(ctx context.Context, user *entities.User) error {
	code := u.generateCode()
	user.EmailVerificationCode = code
	user.CodeIssuedAt = null.TimeFrom(u.now())

	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	logger.Debug(ctx, "sending verification code", zap.String("email", user.Email))

	msg := &mailer.Message{
		To:      user.Email,
		From:    u.from,
		Subject: "Your verification code",
		Text: fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\n\nIt expires in 15 minutes.",
			user.Username, code),
		HTML: fmt.Sprintf("<p>Hello <strong>%s</strong>,</p><p>Your verification code is: <strong>%s</strong></p><p>It expires in 15 minutes.</p>",
			user.Username, code),
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		return domainerrors.DeliveryFailure(err)
	}
	return nil
}

// Verify checks a submitted code and flips the account to verified.
// An already-verified account short-circuits to success with fresh
// credentials so client retries stay safe.
func (u *VerificationUsecase) Verify(ctx context.Context, email, code string) (*entities.AuthResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.IsEmailVerified {
		return &entities.AuthResult{User: user, Credentials: u.creds.Issue(ctx, user)}, nil
	}

	// Exact string compare: leading zeros matter.
	if user.EmailVerificationCode == "" || user.EmailVerificationCode != code {
		return nil, domainerrors.ErrInvalidCode
	}
	if !user.CodeIssuedAt.Valid || u.now().After(user.CodeIssuedAt.Time.Add(CodeTTL)) {
		return nil, domainerrors.ErrCodeExpired
	}

	user.IsEmailVerified = true
	user.EmailVerificationCode = ""
	user.CodeIssuedAt = null.Time{}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &entities.AuthResult{User: user, Credentials: u.creds.Issue(ctx, user)}, nil
}

// Resend reissues a code for an unverified account and bumps the
// token_version counter so tokens minted before the resend can be
// invalidated downstream. Returns reissued=false when the account is
// already verified; no new code is generated in that case.
func (u *VerificationUsecase) Resend(ctx context.Context, email string) (user *entities.User, reissued bool, err error) {
	user, err = u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if user.IsEmailVerified {
		return user, false, nil
	}

	user.TokenVersion++
	if err := u.IssueCode(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
