package session

import (
	"errors"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/pkg/kv"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCodeInvalid covers unknown, expired and already redeemed codes
var ErrCodeInvalid = errors.New("invalid signin code")

const codePrefix = "signin:"

// CodeStore issues short numeric signin codes and redeems them once.
// Delivery of the code to the user is someone elses concern. The
// backing store is an expiring key-value store so the codes survive a
// swap to a shared cache in multi-instance deployments.
type CodeStore struct {
	log    *zap.Logger
	codes  kv.Expiring
	mint   func() string
	expiry time.Duration
}

func NewCodeStore(
	log *zap.Logger,
	codes kv.Expiring,
	mint func() string,
	expiry time.Duration,
) *CodeStore {
	return &CodeStore{
		log:    log,
		codes:  codes,
		mint:   mint,
		expiry: expiry,
	}
}

// Expiry is the lifetime of issued codes
func (c *CodeStore) Expiry() time.Duration {
	return c.expiry
}

// Start issues a fresh code bound to the user
func (c *CodeStore) Start(userID uuid.UUID) string {
	code := c.mint()
	c.codes.Set(codePrefix+code, userID.String(), c.expiry)
	return code
}

// Redeem resolves the code to its user and consumes it, a code never
// redeems twice
func (c *CodeStore) Redeem(code string) (uuid.UUID, error) {
	value, ok := c.codes.Get(codePrefix + code)
	if !ok {
		return uuid.Nil, ErrCodeInvalid
	}
	c.codes.Delete(codePrefix + code)
	userID, err := uuid.Parse(value)
	if err != nil {
		c.log.Error("signin code held malformed subject", zap.Error(err))
		return uuid.Nil, ErrCodeInvalid
	}
	return userID, nil
}
