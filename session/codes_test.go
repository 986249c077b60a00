package session

import (
	"testing"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/pkg/kv"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestCodeStore(t *testing.T, ttl time.Duration) *CodeStore {
	codes := []string{"111111", "222222"}
	next := 0
	return NewCodeStore(zaptest.NewLogger(t), kv.NewInMemory(ttl), func() string {
		code := codes[next%len(codes)]
		next++
		return code
	}, ttl)
}

func TestStartAndRedeem(t *testing.T) {
	assert := assert.New(t)
	store := newTestCodeStore(t, time.Minute)
	userID := uuid.New()

	code := store.Start(userID)
	assert.Equal("111111", code)

	redeemed, err := store.Redeem(code)
	assert.Nil(err)
	assert.Equal(userID, redeemed)
}

func TestRedeemConsumesTheCode(t *testing.T) {
	assert := assert.New(t)
	store := newTestCodeStore(t, time.Minute)

	code := store.Start(uuid.New())
	_, err := store.Redeem(code)
	assert.Nil(err)

	_, err = store.Redeem(code)
	assert.ErrorIs(err, ErrCodeInvalid)
}

func TestRedeemUnknownCode(t *testing.T) {
	assert := assert.New(t)
	store := newTestCodeStore(t, time.Minute)

	_, err := store.Redeem("999999")
	assert.ErrorIs(err, ErrCodeInvalid)
}

func TestRedeemExpiredCode(t *testing.T) {
	assert := assert.New(t)
	store := newTestCodeStore(t, time.Millisecond)

	code := store.Start(uuid.New())
	time.Sleep(5 * time.Millisecond)

	_, err := store.Redeem(code)
	assert.ErrorIs(err, ErrCodeInvalid)
}
