package redis

import (
	"context"
	"errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/alam0164088/chef-star/pkg/crypto"
)

// ErrTokenNotFound is returned when an opaque token matches no account.
var ErrTokenNotFound = errors.New("bearer token not found")

const (
	userTokenKeyPrefix = "auth_token:user:"
	tokenKeyPrefix     = "auth_token:token:"
)

// TokenStore keeps opaque bearer tokens in Redis, indexed both by user
// and by token value so requests can be authenticated with a single
// lookup. Tokens have no expiry; one token per account, reused across
// logins.
type TokenStore struct{}

var (
	setTokenValue   = Set
	getTokenValue   = Get
	mintBearerToken = crypto.GenerateBearerToken
)

// NewTokenStore creates a new token store
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// GetOrCreate returns the account's bearer token, minting one on first
// use. Repeated calls for the same account return the same token.
func (s *TokenStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error) {
	userKey := userTokenKeyPrefix + userID.String()

	token, err := getTokenValue(ctx, userKey)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "", err
	}

	token, err = mintBearerToken()
	if err != nil {
		return "", err
	}

	if err := setTokenValue(ctx, userKey, token, 0); err != nil {
		return "", err
	}
	if err := setTokenValue(ctx, tokenKeyPrefix+token, userID.String(), 0); err != nil {
		return "", err
	}

	return token, nil
}

// Lookup resolves an opaque token to the owning account ID.
func (s *TokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := getTokenValue(ctx, tokenKeyPrefix+token)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return userID, nil
}
