package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome bool

const (
	fail outcome = false
	ok   outcome = true
)

func replay(b *Breaker, seq ...outcome) {
	for _, o := range seq {
		if o {
			b.RecordSuccess()
		} else {
			b.RecordFailure()
		}
	}
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		seq      []outcome
		wantOpen bool
	}{
		{"fresh breaker is closed", nil, nil, false},
		{"below failure threshold", []Option{WithFailureThreshold(3)}, []outcome{fail, fail}, false},
		{"reaches failure threshold", []Option{WithFailureThreshold(3)}, []outcome{fail, fail, fail}, true},
		{"success resets failure streak", []Option{WithFailureThreshold(3)}, []outcome{fail, fail, ok, fail, fail}, false},
		{"one success is not enough to close", []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, []outcome{fail, ok}, true},
		{"success streak closes", []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, []outcome{fail, ok, ok}, false},
		{"failure resets success streak", []Option{WithFailureThreshold(1), WithSuccessThreshold(3)}, []outcome{fail, ok, ok, fail, ok, ok}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("outcome-cache", tt.opts...)
			replay(b, tt.seq...)
			assert.Equal(t, tt.wantOpen, b.IsOpen())
		})
	}
}

func TestBreakerReportsStateChanges(t *testing.T) {
	b := New("outcome-cache", WithFailureThreshold(2), WithSuccessThreshold(1))
	assert.Equal(t, "outcome-cache", b.Name())

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReset(t *testing.T) {
	b := New("outcome-cache", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerAllowProbesAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New("outcome-cache", WithFailureThreshold(1), WithCooldown(time.Second), withClock(func() time.Time { return now }))

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "one trial request per cooldown")
	assert.False(t, b.Allow())

	now = now.Add(time.Second)
	assert.True(t, b.Allow())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
}
