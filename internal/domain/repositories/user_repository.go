package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/alam0164088/chef-star/internal/domain/entities"
)

// UserRepository defines account data operations. Implementations must
// enforce email and username uniqueness at write time and surface
// conflicts as ErrAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByVerificationToken(ctx context.Context, token uuid.UUID) (*entities.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *entities.User) error
}
