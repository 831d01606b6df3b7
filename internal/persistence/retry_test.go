package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPingWithRetry_EventuallySucceeds(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	err := pingWithRetry(context.Background(), ping, 5, time.Millisecond, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	down := errors.New("down")
	calls := 0
	ping := func(context.Context) error {
		calls++
		return down
	}

	err := pingWithRetry(context.Background(), ping, 2, time.Millisecond, zap.NewNop())
	assert.ErrorIs(t, err, down)
	assert.Equal(t, 3, calls)
}
