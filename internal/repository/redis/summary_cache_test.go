package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHook answers GET and SET from a map so the client never dials.
type memoryHook struct {
	values map[string]string
	getErr error
	calls  [][]any
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled")
	}
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.calls = append(h.calls, cmd.Args())
		switch cmd.Name() {
		case "get":
			if h.getErr != nil {
				cmd.SetErr(h.getErr)
				return h.getErr
			}
			v, ok := h.values[cmd.Args()[1].(string)]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(v)
		case "set":
			h.values[cmd.Args()[1].(string)] = cmd.Args()[2].(string)
			cmd.(*redis.StatusCmd).SetVal("OK")
		}
		return nil
	}
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newTestCache(t *testing.T, hook *memoryHook) *SummaryCache {
	t.Helper()
	if hook.values == nil {
		hook.values = map[string]string{}
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })
	return NewSummaryCache(client).(*SummaryCache)
}

func TestSummaryCache_MissIsNotAnError(t *testing.T) {
	cache := newTestCache(t, &memoryHook{})

	summary, ok, err := cache.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, summary)
}

func TestSummaryCache_Hit(t *testing.T) {
	hook := &memoryHook{values: map[string]string{SummaryKey("1"): "Road works in Tartu"}}
	cache := newTestCache(t, hook)

	summary, ok, err := cache.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Road works in Tartu", summary)
	require.Len(t, hook.calls, 1)
	assert.Equal(t, []any{"get", "tenderly:summary:1"}, hook.calls[0])
}

func TestSummaryCache_GetFailure(t *testing.T) {
	cause := errors.New("connection refused")
	cache := newTestCache(t, &memoryHook{getErr: cause})

	_, ok, err := cache.Get(context.Background(), "1")
	require.ErrorIs(t, err, cause)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "get cached summary")
}

func TestSummaryCache_SetThenGet(t *testing.T) {
	hook := &memoryHook{}
	cache := newTestCache(t, hook)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "7", "summary text", time.Hour))
	require.NotEmpty(t, hook.calls)

	setArgs := hook.calls[0]
	require.GreaterOrEqual(t, len(setArgs), 5)
	assert.Equal(t, "set", setArgs[0])
	assert.Equal(t, SummaryKey("7"), setArgs[1])
	assert.Equal(t, "ex", setArgs[3])
	assert.EqualValues(t, 3600, setArgs[4])

	summary, ok, err := cache.Get(ctx, "7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "summary text", summary)
}

func TestConnect_RejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}
