package authz

import (
	"context"
	"errors"
	"testing"

	"carwash_payouts/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSets struct {
	members map[string]map[string]bool
	err     error
	calls   int
}

func (f *fakeSets) SIsMember(_ context.Context, key string, member interface{}) *redis.BoolCmd {
	f.calls++
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	return redis.NewBoolResult(f.members[key][member.(string)], nil)
}

func TestStaticAuthorizer(t *testing.T) {
	a := NewStaticAuthorizer([]string{" admin-1 ", ""})

	ok, err := a.IsAuthorized(context.Background(), "admin-1", interfaces.ActionPayPaymentRequest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = a.IsAuthorized(context.Background(), "w-1", interfaces.ActionPayPaymentRequest)
	assert.False(t, ok)
}

func TestRedisAuthorizer(t *testing.T) {
	sets := &fakeSets{members: map[string]map[string]bool{
		AdminRoleKey: {"boss": true},
		RoleKey(interfaces.ActionApprovePaymentRequest): {"supervisor": true},
	}}
	a := NewRedisAuthorizer(sets, NewStaticAuthorizer([]string{"root"}))
	ctx := context.Background()

	t.Run("static admin skips redis", func(t *testing.T) {
		before := sets.calls
		ok, err := a.IsAuthorized(ctx, "root", interfaces.ActionPayPaymentRequest)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, before, sets.calls)
	})

	t.Run("admin role", func(t *testing.T) {
		ok, err := a.IsAuthorized(ctx, "boss", interfaces.ActionPayPaymentRequest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("per action role", func(t *testing.T) {
		ok, err := a.IsAuthorized(ctx, "supervisor", interfaces.ActionApprovePaymentRequest)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = a.IsAuthorized(ctx, "supervisor", interfaces.ActionPayPaymentRequest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("redis failure", func(t *testing.T) {
		broken := NewRedisAuthorizer(&fakeSets{err: errors.New("connection refused")}, NewStaticAuthorizer(nil))
		_, err := broken.IsAuthorized(ctx, "boss", interfaces.ActionPayPaymentRequest)
		assert.Error(t, err)
	})
}

func TestNewWithoutRedis(t *testing.T) {
	a := New(nil, []string{"admin-1"})
	_, ok := a.(*StaticAuthorizer)
	assert.True(t, ok)
}
