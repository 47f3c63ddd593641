package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ payload string }

func (e testEvent) Name() string { return "test.event" }

func TestPublishReachesSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	received := make(chan Event, 1)

	bus.Subscribe("test.event", func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})

	bus.Publish(context.Background(), testEvent{payload: "hello"})

	select {
	case event := <-received:
		assert.Equal(t, "hello", event.(testEvent).payload)
	case <-time.After(time.Second):
		t.Fatal("listener was not invoked")
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	bus := New(zap.NewNop())
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), testEvent{})
	})
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	received := make(chan struct{}, 2)

	listener := func(ctx context.Context, event Event) error {
		received <- struct{}{}
		return nil
	}
	bus.Subscribe("test.event", listener)
	bus.Subscribe("test.event", listener)

	bus.Publish(context.Background(), testEvent{})

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatal("not all listeners were invoked")
		}
	}
}
