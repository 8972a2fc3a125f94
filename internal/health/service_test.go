package health

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectHealth_WithNilRedis(t *testing.T) {
	result := CollectHealth(context.Background(), nil, nil)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "100", result.Traffic.SuccessRate)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	result := CollectHealth(ctx, rdb, nil)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "20", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "400", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "20", 0).Err())

	result2 := CollectHealth(ctx, rdb, nil)
	assert.Equal(t, 20, result2.Traffic.TotalRequests)
	assert.Equal(t, 5, result2.Traffic.FailedCount)
	assert.Equal(t, 15, result2.Traffic.SuccessCount)
	assert.Equal(t, "75.0", result2.Traffic.SuccessRate)
	assert.Equal(t, "20.00", result2.Traffic.AvgResponseTime)
}

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func TestCollectHealth_DBConnected(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	result := CollectHealth(context.Background(), rdb, okPinger{})
	assert.Equal(t, "connected", result.Dependencies["database"].Status)
	assert.Equal(t, "ok", result.Status)
}
