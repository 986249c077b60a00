package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"go.uber.org/zap"
)

// ErrInvalidToken covers unknown and expired tokens alike, callers
// cannot probe for the existence of expired tokens
var ErrInvalidToken = errors.New("invalid token")

// AccessTokenReader resolves a token row by its opaque value
type AccessTokenReader interface {
	AccessTokenByValue(ctx context.Context, token string) (*tables.AccessTokenTable, error)
}

// Verifier validates presented bearer tokens by exact lookup without
// consulting installation state
type Verifier struct {
	log   *zap.Logger
	store AccessTokenReader
}

func NewVerifier(log *zap.Logger, store AccessTokenReader) *Verifier {
	return &Verifier{
		log:   log,
		store: store,
	}
}

// Validate resolves the token and checks its expiry against a single
// clock read. Expired rows still present in storage validate exactly
// like unknown tokens.
func (v *Verifier) Validate(ctx context.Context, token string) (*Validated, error) {
	now := time.Now().UTC()
	row, err := v.store.AccessTokenByValue(ctx, token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		v.log.Error("could not look up access token", zap.Error(err))
		return nil, err
	}
	if !row.ExpiresAt.After(now) {
		return nil, ErrInvalidToken
	}
	return &Validated{
		subjectType: row.SubjectType,
		subjectID:   row.SubjectID,
		appBlockID:  row.AppBlockID,
		scopes:      row.Scopes,
		expiresAt:   row.ExpiresAt,
	}, nil
}
