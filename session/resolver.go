package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"
)

var (
	// ErrNoSession indicates the request carries no usable session
	ErrNoSession = errors.New("no valid session present")
)

// Resolver maps inbound session credentials to user identities. The
// authorization core itself never sees raw credentials, it only works
// with the resolved subject.
type Resolver struct {
	log    *zap.Logger
	auth   *jwtauth.JWTAuth
	issuer string
	expiry time.Duration
}

func NewResolver(
	log *zap.Logger,
	signingKey []byte,
	issuer string,
	expiry time.Duration,
) *Resolver {
	return &Resolver{
		log:    log,
		auth:   jwtauth.New("HS256", signingKey, nil),
		issuer: issuer,
		expiry: expiry,
	}
}

// Auth exposes the verifier used by the http middleware
func (r *Resolver) Auth() *jwtauth.JWTAuth {
	return r.auth
}

// Expiry is the lifetime of issued session tokens
func (r *Resolver) Expiry() time.Duration {
	return r.expiry
}

// IssueSession mints a signed session token for the user
func (r *Resolver) IssueSession(userID uuid.UUID) (string, error) {
	claims := map[string]interface{}{
		"sub": userID.String(),
		"iss": r.issuer,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, r.expiry)
	_, tokenString, err := r.auth.Encode(claims)
	if err != nil {
		r.log.Error("could not encode session token", zap.Error(err))
		return "", err
	}
	return tokenString, nil
}

// ResolveSubject extracts the authenticated user from a request
// context populated by the jwtauth verifier middleware
func (r *Resolver) ResolveSubject(ctx context.Context) (uuid.UUID, error) {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return uuid.Nil, ErrNoSession
	}
	if err := jwt.Validate(token, jwt.WithIssuer(r.issuer)); err != nil {
		return uuid.Nil, ErrNoSession
	}
	userID, err := uuid.Parse(token.Subject())
	if err != nil {
		return uuid.Nil, ErrNoSession
	}
	return userID, nil
}
