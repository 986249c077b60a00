package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidGrantType indicates an unknown grant type
	ErrInvalidGrantType = errors.New("grant type must be user_session or service_account")
	// ErrNoMatchingScopes indicates no granted scope matched the request
	ErrNoMatchingScopes = errors.New("no granted scope matches the request")
)

// AccessTokenInserter persists freshly minted tokens
type AccessTokenInserter interface {
	InsertAccessToken(ctx context.Context, token string, subjectType string, subjectID uuid.UUID, appBlockID *uuid.UUID, scopes []string, expires time.Time) (uuid.UUID, error)
}

// GrantSource supplies the scope set an app block may draw from,
// already filtered to active grants of one auth mode
type GrantSource interface {
	ActiveScopes(ctx context.Context, consumerID uuid.UUID, authType string) ([]string, error)
}

// Issuer mints opaque bearer tokens bound to a subject, an app block
// and a scope subset of what the installation ledger currently grants
type Issuer struct {
	log        *zap.Logger
	store      AccessTokenInserter
	grants     GrantSource
	dispatcher *events.Dispatcher
	mint       func() string

	defaultExpiry time.Duration
	maxExpiry     time.Duration
}

func NewIssuer(
	log *zap.Logger,
	store AccessTokenInserter,
	grants GrantSource,
	dispatcher *events.Dispatcher,
	mint func() string,
	defaultExpiry time.Duration,
	maxExpiry time.Duration,
) *Issuer {
	return &Issuer{
		log:           log,
		store:         store,
		grants:        grants,
		dispatcher:    dispatcher,
		mint:          mint,
		defaultExpiry: defaultExpiry,
		maxExpiry:     maxExpiry,
	}
}

// subjectFor maps the grant type to the stored subject type and the
// auth mode the grant collection is filtered by
func subjectFor(grantType string) (string, string, error) {
	switch grantType {
	case GrantUserSession:
		return SubjectUser, "user", nil
	case GrantServiceAccount:
		return SubjectService, "service", nil
	}
	return "", "", ErrInvalidGrantType
}

func intersect(available []string, requested []string) []string {
	set := make(map[string]struct{}, len(available))
	for _, scope := range available {
		set[scope] = struct{}{}
	}
	result := make([]string, 0, len(requested))
	for _, scope := range requested {
		if _, ok := set[scope]; ok {
			result = append(result, scope)
		}
	}
	return result
}

// Issue exchanges an authenticated subject for a short-lived token.
// The final scope set is the intersection of the request with the
// grants available under the callers auth mode; an empty intersection
// fails rather than minting a scopeless token.
func (i *Issuer) Issue(
	ctx context.Context,
	grantType string,
	subjectID uuid.UUID,
	appBlockID uuid.UUID,
	requestedScopes []string,
	expiry time.Duration,
) (*ActiveToken, error) {
	subjectType, authType, err := subjectFor(grantType)
	if err != nil {
		return nil, err
	}

	available, err := i.grants.ActiveScopes(ctx, appBlockID, authType)
	if err != nil {
		i.log.Error("could not collect grantable scopes", zap.Error(err))
		return nil, err
	}
	final := available
	if len(requestedScopes) > 0 {
		final = intersect(available, requestedScopes)
	}
	if len(final) == 0 {
		return nil, ErrNoMatchingScopes
	}

	if expiry <= 0 {
		expiry = i.defaultExpiry
	}
	if expiry > i.maxExpiry {
		expiry = i.maxExpiry
	}
	expiresAt := time.Now().UTC().Add(expiry)

	token := i.mint()
	id, err := i.store.InsertAccessToken(
		ctx, token, subjectType, subjectID, &appBlockID, final, expiresAt,
	)
	if err != nil {
		i.log.Error("could not persist access token", zap.Error(err))
		return nil, err
	}
	i.dispatcher.Dispatch(ctx, &event.TokenIssued{
		TokenID:     id,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		AppBlockID:  appBlockID,
		Scopes:      final,
		ExpiresAt:   expiresAt,
	})
	return &ActiveToken{
		id:          id,
		token:       token,
		subjectType: subjectType,
		subjectID:   subjectID,
		appBlockID:  appBlockID,
		scopes:      final,
		expiresAt:   expiresAt,
	}, nil
}
