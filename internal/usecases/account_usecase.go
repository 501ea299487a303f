package usecases

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/domain/repositories"
	"github.com/alam0164088/chef-star/pkg/crypto"
)

// AccountUsecase handles registration, login and profile reads.
type AccountUsecase struct {
	userRepo     repositories.UserRepository
	verification *VerificationUsecase
	creds        *CredentialIssuer
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(
	userRepo repositories.UserRepository,
	verification *VerificationUsecase,
	creds *CredentialIssuer,
) *AccountUsecase {
	return &AccountUsecase{
		userRepo:     userRepo,
		verification: verification,
		creds:        creds,
	}
}

// Register creates the account in its initial state (unverified,
// unapproved) and issues the first verification code. A mail delivery
// failure propagates: the account exists by then but has no usable code
// path, so hiding the failure would strand the user.
func (u *AccountUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	if input.Password != input.PasswordConfirm {
		return nil, domainerrors.BadRequest("passwords do not match")
	}

	// Friendly pre-check; the unique index on email stays authoritative
	// for concurrent registrations.
	if _, err := u.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.BadRequest("a user with that email already exists")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		derived, err := u.deriveUsername(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		username = derived
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}
	if input.ChefStarName != "" {
		user.ChefStarName = null.StringFrom(input.ChefStarName)
	}
	if key, ok := entities.NormalizeAgeGroup(input.AgeGroup); ok {
		user.AgeGroup = null.StringFrom(key)
	}
	if input.ParentEmail != "" {
		user.ParentEmail = null.StringFrom(input.ParentEmail)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.BadRequest("a user with that email already exists")
		}
		return nil, err
	}

	if err := u.verification.IssueCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// deriveUsername builds a username from the email local-part and
// resolves collisions with an increasing numeric suffix.
func (u *AccountUsecase) deriveUsername(ctx context.Context, email string) (string, error) {
	base := email
	if i := strings.Index(email, "@"); i >= 0 {
		base = email[:i]
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := u.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}

// Login gates credential acceptance on the full lifecycle. Unknown
// email and wrong password return the identical error so neither case
// leaks which part was wrong.
func (u *AccountUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	switch user.State() {
	case entities.StateUnverified:
		return nil, domainerrors.ErrEmailNotVerified
	case entities.StatePendingApproval:
		return nil, domainerrors.ErrParentApprovalRequired
	}

	return &entities.AuthResult{User: user, Credentials: u.creds.Issue(ctx, user)}, nil
}

// GetUserByID gets an account by ID
func (u *AccountUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
