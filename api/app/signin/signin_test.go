package signin

import (
	"net/http"
	"testing"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/pkg/kv"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"go.uber.org/zap"
)

func newHandler() (http.Handler, *session.Resolver, *session.CodeStore) {
	logger := zap.NewNop()
	resolver := session.NewResolver(logger, []byte("0123456789abcdef"), "rcab-test", time.Hour)
	codes := session.NewCodeStore(
		logger,
		kv.NewInMemory(5*time.Minute),
		func() string { return "11111111" },
		5*time.Minute,
	)
	ressource := NewSigninRessource(logger, codes, resolver)
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(resolver.Auth()))
	r.Mount("/", ressource.Router())
	return r, resolver, codes
}

func TestMintCodeRequiresSession(t *testing.T) {
	handler, _, _ := newHandler()

	apitest.New().
		Handler(handler).
		Post("/code").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestMintAndRedeemCode(t *testing.T) {
	handler, resolver, _ := newHandler()
	userID := uuid.New()
	sessionToken, err := resolver.IssueSession(userID)
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(handler).
		Post("/code").
		Header("Authorization", "Bearer "+sessionToken).
		Expect(t).
		Assert(jsonpath.Equal(`$.code`, "11111111")).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Post("/redeem").
		FormData("code", "11111111").
		Expect(t).
		Assert(jsonpath.Equal(`$.token_type`, "Bearer")).
		Assert(jsonpath.Present(`$.session_token`)).
		Status(http.StatusOK).
		End()
}

func TestRedeemConsumesTheCode(t *testing.T) {
	handler, _, codes := newHandler()
	codes.Start(uuid.New())

	apitest.New().
		Handler(handler).
		Post("/redeem").
		FormData("code", "11111111").
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Post("/redeem").
		FormData("code", "11111111").
		Expect(t).
		Body(`{"error":"invalid_code"}`).
		Status(http.StatusUnauthorized).
		End()
}

func TestRedeemUnknownCode(t *testing.T) {
	handler, _, _ := newHandler()

	apitest.New().
		Handler(handler).
		Post("/redeem").
		FormData("code", "00000000").
		Expect(t).
		Body(`{"error":"invalid_code"}`).
		Status(http.StatusUnauthorized).
		End()
}
