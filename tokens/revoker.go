package tokens

import (
	"context"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"go.uber.org/zap"
)

// AccessTokenRemover deletes token rows
type AccessTokenRemover interface {
	DeleteAccessTokenByValue(ctx context.Context, token string) (*tables.AccessTokenTable, error)
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int, error)
}

// Revoker removes tokens before their natural expiry and purges
// expired rows
type Revoker struct {
	log        *zap.Logger
	store      AccessTokenRemover
	dispatcher *events.Dispatcher
}

func NewRevoker(log *zap.Logger, store AccessTokenRemover, dispatcher *events.Dispatcher) *Revoker {
	return &Revoker{
		log:        log,
		store:      store,
		dispatcher: dispatcher,
	}
}

// Revoke deletes the token row by value. Revoking an already absent
// token is not an error, the call reports whether a row was removed.
func (r *Revoker) Revoke(ctx context.Context, token string) (bool, error) {
	row, err := r.store.DeleteAccessTokenByValue(ctx, token)
	if err != nil {
		r.log.Error("could not revoke access token", zap.Error(err))
		return false, err
	}
	if row == nil {
		return false, nil
	}
	r.dispatcher.Dispatch(ctx, &event.TokenRevoked{TokenID: row.ID})
	return true, nil
}

// CleanupExpired batch deletes tokens past their expiry. Storage
// hygiene only, expiry is enforced at validation time either way, and
// the delete is safe to run concurrently with issuance and validation.
func (r *Revoker) CleanupExpired(ctx context.Context) (int, error) {
	affected, err := r.store.DeleteExpiredAccessTokens(ctx, time.Now().UTC())
	if err != nil {
		r.log.Error("could not purge expired access tokens", zap.Error(err))
		return 0, err
	}
	if affected > 0 {
		r.dispatcher.Dispatch(ctx, &event.ExpiredTokensPurged{Affected: affected})
	}
	return affected, nil
}
