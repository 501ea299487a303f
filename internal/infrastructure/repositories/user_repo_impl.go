package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	domainerrors "github.com/alam0164088/chef-star/internal/domain/errors"
	"github.com/alam0164088/chef-star/internal/infrastructure/models"
)

// UserRepository implements account data operations on gorm. Duplicate
// key violations from the unique indexes are mapped to ErrAlreadyExists
// so concurrent registrations cannot both succeed.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new account
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	m := toModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an account by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetByEmail gets an account by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetByVerificationToken gets the account holding the parent approval
// token.
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("verification_token = ?", token.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// UsernameExists reports whether a username is already taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists the account's mutable lifecycle fields.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	m := toModel(user)
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_email_verified":       m.IsEmailVerified,
		"email_verification_code": m.EmailVerificationCode,
		"code_issued_at":          m.CodeIssuedAt,
		"parent_email":            m.ParentEmail,
		"chef_star_name":          m.ChefStarName,
		"age_group":               m.AgeGroup,
		"is_parent_approved":      m.IsParentApproved,
		"verification_token":      m.VerificationToken,
		"token_version":           m.TokenVersion,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toModel(u *entities.User) *models.User {
	m := &models.User{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		IsEmailVerified:       u.IsEmailVerified,
		EmailVerificationCode: u.EmailVerificationCode,
		CodeIssuedAt:          u.CodeIssuedAt.Ptr(),
		ParentEmail:           u.ParentEmail.Ptr(),
		ChefStarName:          u.ChefStarName.Ptr(),
		AgeGroup:              u.AgeGroup.Ptr(),
		IsParentApproved:      u.IsParentApproved,
		TokenVersion:          u.TokenVersion,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
	if u.VerificationToken != uuid.Nil {
		token := u.VerificationToken.String()
		m.VerificationToken = &token
	}
	return m
}

func toEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:                    m.ID,
		Username:              m.Username,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		IsEmailVerified:       m.IsEmailVerified,
		EmailVerificationCode: m.EmailVerificationCode,
		CodeIssuedAt:          null.TimeFromPtr(m.CodeIssuedAt),
		ParentEmail:           null.StringFromPtr(m.ParentEmail),
		ChefStarName:          null.StringFromPtr(m.ChefStarName),
		AgeGroup:              null.StringFromPtr(m.AgeGroup),
		IsParentApproved:      m.IsParentApproved,
		TokenVersion:          m.TokenVersion,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if m.VerificationToken != nil {
		if token, err := uuid.Parse(*m.VerificationToken); err == nil {
			u.VerificationToken = token
		}
	}
	return u
}
