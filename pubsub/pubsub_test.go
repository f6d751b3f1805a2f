package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

func TestBrokerDeliversToAllSubscribers(t *testing.T) {
	// Arrange
	b := NewBroker()
	ctx := context.Background()

	first, cancelFirst, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelFirst()
	second, cancelSecond, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelSecond()

	// Act
	require.NoError(t, b.Publish(ctx, &order.Order{ID: 1}))

	// Assert
	for _, ch := range []<-chan *order.Order{first, second} {
		select {
		case o := <-ch:
			assert.Equal(t, int64(1), o.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the order")
		}
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	// Arrange
	b := NewBroker()
	ch, cancel, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	// Act
	cancel()

	// Assert
	_, open := <-ch
	assert.False(t, open)

	// A second cancel is a no-op.
	cancel()
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	// Arrange
	b := NewBroker()
	ctx := context.Background()
	ch, cancel, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	// Act
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, b.Publish(ctx, &order.Order{ID: int64(i)}))
	}

	// Assert
	assert.Len(t, ch, subscriberBuffer)
}

func TestBrokerPublishWithoutSubscribers(t *testing.T) {
	b := NewBroker()
	assert.NoError(t, b.Publish(context.Background(), &order.Order{ID: 1}))
}
