package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/domain/repositories"
	"github.com/alam0164088/chef-star/internal/infrastructure/mailer"
	"github.com/alam0164088/chef-star/pkg/logger"
)

// EmailPreview echoes the composed approval email back to the caller.
// Debug-oriented; not meant for production exposure of parent PII.
type EmailPreview struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

// ConsentResult is the outcome of a consent submission.
type ConsentResult struct {
	User       *entities.User
	Preview    EmailPreview
	SendStatus string
}

// ConsentUsecase records the parent contact, manages the durable
// approval token, and handles the parent-facing approval itself.
type ConsentUsecase struct {
	userRepo repositories.UserRepository
	mailer   mailer.Mailer
	from     string
}

// NewConsentUsecase creates a new consent usecase
func NewConsentUsecase(userRepo repositories.UserRepository, m mailer.Mailer, from string) *ConsentUsecase {
	return &ConsentUsecase{
		userRepo: userRepo,
		mailer:   m,
		from:     from,
	}
}

// SubmitParent persists the child's consent submission and mails the
// approval link to the parent. The approval token is generated once and
// never rotated afterwards, so re-submissions keep old links valid.
// linkBase is the scheme://host prefix for the approval link.
func (u *ConsentUsecase) SubmitParent(ctx context.Context, userID uuid.UUID, input *entities.SubmitParentInput, linkBase string) (*ConsentResult, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	user.ParentEmail = null.StringFrom(input.ParentEmail)
	if input.StarName != "" {
		user.ChefStarName = null.StringFrom(input.StarName)
	}
	if key, ok := entities.NormalizeAgeGroup(input.AgeGroup); ok {
		user.AgeGroup = null.StringFrom(key)
	}
	if user.VerificationToken == uuid.Nil {
		user.VerificationToken = uuid.New()
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/users/approve-parent/%s?email=%s",
		strings.TrimRight(linkBase, "/"), user.VerificationToken, url.QueryEscape(input.ParentEmail))

	subject := fmt.Sprintf("Please approve %s's account", user.Username)
	text := fmt.Sprintf("Please approve your child's account by visiting: %s", link)
	html := approvalEmailHTML(user.Username, link)

	msg := &mailer.Message{
		To:      input.ParentEmail,
		From:    u.from,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		logger.Error(ctx, "parent approval email failed",
			zap.String("parent_email", input.ParentEmail), zap.Error(err))
		return nil, domainerrors.DeliveryFailure(err)
	}
	logger.Info(ctx, "parent approval email sent", zap.String("parent_email", input.ParentEmail))

	return &ConsentResult{
		User: user,
		Preview: EmailPreview{
			To:      []string{input.ParentEmail},
			From:    u.from,
			Subject: subject,
			Text:    text,
			HTML:    html,
		},
		SendStatus: "sent",
	}, nil
}

// ApproveParent handles the parent following the emailed link. A
// supplied parentEmail must match the stored one; an empty value skips
// the check. Returns alreadyApproved=true when the account was approved
// before, in which case no notification is re-sent.
func (u *ConsentUsecase) ApproveParent(ctx context.Context, token uuid.UUID, parentEmail string) (user *entities.User, alreadyApproved bool, err error) {
	user, err = u.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, false, err
	}

	if parentEmail != "" && (!user.ParentEmail.Valid || parentEmail != user.ParentEmail.String) {
		return nil, false, domainerrors.ErrParentEmailMismatch
	}

	if user.IsParentApproved {
		return user, true, nil
	}

	user.IsParentApproved = true
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, false, err
	}

	// Notify the child at their own address.
	msg := &mailer.Message{
		To:      user.Email,
		From:    u.from,
		Subject: "Your parent approved your account",
		Text: fmt.Sprintf("Hi %s,\n\nYour parent has approved your account. You can now log in.",
			user.Username),
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		return nil, false, domainerrors.DeliveryFailure(err)
	}

	return user, false, nil
}

func approvalEmailHTML(username, link string) string {
	return fmt.Sprintf(`<html>
  <body>
    <p>Hello,</p>
    <p>Please approve <strong>%s</strong>'s account by clicking the button below:</p>
    <p style="text-align:center;">
      <a href="%s" style="padding:12px 20px;background:#6f42c1;color:#fff;border-radius:6px;text-decoration:none;">Approve account</a>
    </p>
  </body>
</html>`, username, link)
}
