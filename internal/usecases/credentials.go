package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alam0164088/chef-star/internal/domain/entities"
	"github.com/alam0164088/chef-star/pkg/jwt"
	"github.com/alam0164088/chef-star/pkg/logger"
)

// BearerTokens mints and reuses opaque bearer tokens per account.
type BearerTokens interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error)
}

// CredentialIssuer produces the credential set returned on login and
// successful verification: an opaque bearer token plus a signed
// access/refresh pair carrying the token_version claim.
type CredentialIssuer struct {
	tokens     BearerTokens
	jwtService *jwt.JWTService
}

// NewCredentialIssuer creates a new credential issuer
func NewCredentialIssuer(tokens BearerTokens, jwtService *jwt.JWTService) *CredentialIssuer {
	return &CredentialIssuer{
		tokens:     tokens,
		jwtService: jwtService,
	}
}

// Issue mints credentials for the account. Minting is best-effort:
// failures are logged and the corresponding fields stay empty rather
// than failing the whole request.
func (i *CredentialIssuer) Issue(ctx context.Context, user *entities.User) entities.Credentials {
	var creds entities.Credentials

	if i.tokens != nil {
		token, err := i.tokens.GetOrCreate(ctx, user.ID)
		if err != nil {
			logger.Warn(ctx, "bearer token minting failed",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		} else {
			creds.Token = token
		}
	}

	if i.jwtService != nil {
		pair, err := i.jwtService.GenerateTokenPair(user.ID, user.Email, user.TokenVersion)
		if err != nil {
			logger.Warn(ctx, "jwt minting failed",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		} else {
			creds.AccessToken = pair.AccessToken
			creds.RefreshToken = pair.RefreshToken
		}
	}

	return creds
}
