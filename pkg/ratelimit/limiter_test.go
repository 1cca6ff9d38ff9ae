package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithoutClient(t *testing.T) {
	l := NewLimiter(nil, "helpdesk:ratelimit:otp")

	_, err := l.Allow(context.Background(), "127.0.0.1", 5, time.Minute)
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestResultRetryAfter(t *testing.T) {
	now := time.Now()

	allowed := &Result{Allowed: true, ResetAt: now.Add(time.Minute)}
	assert.Zero(t, allowed.RetryAfter(now))

	blocked := &Result{Allowed: false, ResetAt: now.Add(30 * time.Second)}
	assert.Equal(t, 30*time.Second, blocked.RetryAfter(now))

	stale := &Result{Allowed: false, ResetAt: now.Add(-time.Second)}
	require.Zero(t, stale.RetryAfter(now))
}

type scripter struct {
	reply []interface{}
	err   error
	keys  []string
	args  []interface{}
}

func (s *scripter) run(ctx context.Context, keys []string, args []interface{}) *redis.Cmd {
	s.keys, s.args = keys, args
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
	} else {
		cmd.SetVal(s.reply)
	}
	return cmd
}

func (s *scripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(ctx, keys, args)
}

func (s *scripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(ctx, keys, args)
}

func (s *scripter) EvalRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(ctx, keys, args)
}

func (s *scripter) EvalShaRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(ctx, keys, args)
}

func (s *scripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (s *scripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestAllow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	client := &scripter{reply: []interface{}{int64(1), int64(2), int64(0)}}
	l := NewLimiter(client, "helpdesk:throttle")
	l.now = func() time.Time { return now }

	result, err := l.Allow(context.Background(), "otp:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
	assert.Equal(t, 3, result.Limit)
	assert.Equal(t, now.Add(time.Minute), result.ResetAt)
	assert.Equal(t, []string{"helpdesk:throttle:otp:10.0.0.1"}, client.keys)
	assert.Equal(t, []interface{}{now.UnixMilli(), now.Add(-time.Minute).UnixMilli(), 3, time.Minute.Milliseconds()}, client.args)
}

func TestAllowDenied(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reset := now.Add(20 * time.Second)
	l := NewLimiter(&scripter{reply: []interface{}{int64(0), int64(0), reset.UnixMilli()}}, "helpdesk:throttle")
	l.now = func() time.Time { return now }

	result, err := l.Allow(context.Background(), "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.True(t, reset.Equal(result.ResetAt))
	assert.Equal(t, 20*time.Second, result.RetryAfter(now))
}

func TestAllowErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewLimiter(&scripter{}, "p").Allow(ctx, "k", 0, time.Minute)
	assert.Error(t, err)

	_, err = NewLimiter(&scripter{err: errors.New("connection refused")}, "p").Allow(ctx, "k", 3, time.Minute)
	assert.ErrorContains(t, err, "connection refused")

	_, err = NewLimiter(&scripter{reply: []interface{}{int64(1)}}, "p").Allow(ctx, "k", 3, time.Minute)
	assert.ErrorContains(t, err, "unexpected response length")
}
