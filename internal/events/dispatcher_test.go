package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventLoginFailed, "a@test.com", "", time.Now(), nil)))
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventLoginSucceeded, "a@test.com", "u-1", time.Now(), nil)))

	assert.Equal(t, []EventType{EventLoginFailed}, got)
}

func TestDispatcher_HandlerErrorsDoNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error { calls++; return boom })
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error { calls++; return nil })

	err := d.Publish(context.Background(), NewEvent(EventUserRegistered, "a@test.com", "u-1", time.Now(), nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewEvent_AssignsID(t *testing.T) {
	a := NewEvent(EventUserRegistered, "a@test.com", "u-1", time.Now(), nil)
	b := NewEvent(EventUserRegistered, "a@test.com", "u-1", time.Now(), nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
