package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/ports/mocks"
	"sentencer/pkg/platform/circuit"
)

func TestGuardedPassesThroughWhileClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockOutcomeCache(ctrl)
	want := &sentencing.Outcome{Status: sentencing.StatusComputed}
	backend.EXPECT().Get(gomock.Any(), "fp").Return(want, nil)
	backend.EXPECT().Set(gomock.Any(), "fp", want).Return(nil)

	g := NewGuarded(backend, nil, nil)
	got, err := g.Get(context.Background(), "fp")
	require.NoError(t, err)
	assert.Same(t, want, got)
	require.NoError(t, g.Set(context.Background(), "fp", want))
}

func TestGuardedSkipsBackendWhileOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockOutcomeCache(ctrl)
	backend.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("i/o timeout")).Times(2)

	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	g := NewGuarded(backend, breaker, nil)

	for range 2 {
		_, err := g.Get(context.Background(), "fp")
		require.Error(t, err)
	}
	require.True(t, breaker.IsOpen())

	got, err := g.Get(context.Background(), "fp")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, g.Set(context.Background(), "fp", &sentencing.Outcome{}))
}
