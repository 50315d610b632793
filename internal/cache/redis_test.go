package cache

import (
	"context"
	"testing"

	"guildapply/internal/observability"

	"github.com/alicebob/miniredis/v2"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_URLAndAddr(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := Connect(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = c.Close()

	c, err = Connect(ctx, mr.Addr())
	require.NoError(t, err)
	_ = c.Close()

	_, err = Connect(ctx, "redis://%zz")
	assert.Error(t, err)
}

func TestConnectOptional_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, ConnectOptional(context.Background(), addr))
}

func TestInstrument_CountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	c := Instrument(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	before := promtest.ToFloat64(observability.RedisErrorRate.WithLabelValues("get"))

	_, err := c.Get(ctx, "missing").Result()
	require.ErrorIs(t, err, redis.Nil)
	assert.Equal(t, before, promtest.ToFloat64(observability.RedisErrorRate.WithLabelValues("get")))

	mr.SetError("ERR injected")
	_, err = c.Get(ctx, "missing").Result()
	require.Error(t, err)
	assert.Equal(t, before+1, promtest.ToFloat64(observability.RedisErrorRate.WithLabelValues("get")))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:revoked:jti-1", SessionRevokedKey("jti-1"))
	assert.Equal(t, "oauth:state:xyz", OAuthStateKey("xyz"))
}
