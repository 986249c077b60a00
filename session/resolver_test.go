package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestIssueSessionRoundTrip(t *testing.T) {
	assert := assert.New(t)
	resolver := NewResolver(zaptest.NewLogger(t), []byte("0123456789abcdef"), "rcab-test", time.Hour)
	userID := uuid.New()

	tokenString, err := resolver.IssueSession(userID)
	assert.Nil(err)
	assert.NotEmpty(tokenString)

	token, err := resolver.Auth().Decode(tokenString)
	assert.Nil(err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	resolved, err := resolver.ResolveSubject(ctx)
	assert.Nil(err)
	assert.Equal(userID, resolved)
}

func TestResolveSubjectWithoutSession(t *testing.T) {
	assert := assert.New(t)
	resolver := NewResolver(zaptest.NewLogger(t), []byte("0123456789abcdef"), "rcab-test", time.Hour)

	_, err := resolver.ResolveSubject(context.Background())
	assert.ErrorIs(err, ErrNoSession)
}

func TestResolveSubjectRejectsForeignIssuer(t *testing.T) {
	assert := assert.New(t)
	foreign := NewResolver(zaptest.NewLogger(t), []byte("0123456789abcdef"), "somebody-else", time.Hour)
	resolver := NewResolver(zaptest.NewLogger(t), []byte("0123456789abcdef"), "rcab-test", time.Hour)

	tokenString, err := foreign.IssueSession(uuid.New())
	assert.Nil(err)

	token, err := resolver.Auth().Decode(tokenString)
	assert.Nil(err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	_, err = resolver.ResolveSubject(ctx)
	assert.ErrorIs(err, ErrNoSession)
}

func TestSessionTokenFromDifferentKeyIsRejected(t *testing.T) {
	assert := assert.New(t)
	issuing := NewResolver(zaptest.NewLogger(t), []byte("0123456789abcdef"), "rcab-test", time.Hour)
	verifying := NewResolver(zaptest.NewLogger(t), []byte("fedcba9876543210"), "rcab-test", time.Hour)

	tokenString, err := issuing.IssueSession(uuid.New())
	assert.Nil(err)

	_, err = verifying.Auth().Decode(tokenString)
	assert.NotNil(err)
}
