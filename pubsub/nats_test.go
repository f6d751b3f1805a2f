package pubsub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

func TestSinkSendAfterCloseDoesNotPanic(t *testing.T) {
	// Arrange
	s := newSink()

	// Act
	s.close()

	// Assert
	assert.NotPanics(t, func() {
		assert.False(t, s.send(&order.Order{ID: 1}))
	})
	_, open := <-s.ch
	assert.False(t, open)
}

func TestSinkCloseRacesInFlightSend(t *testing.T) {
	// Arrange
	s := newSink()
	var wg sync.WaitGroup

	// Act
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.send(&order.Order{ID: int64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		s.close()
	}()

	// Assert
	assert.NotPanics(t, wg.Wait)
}

func TestSinkDropsForSlowSubscriber(t *testing.T) {
	// Arrange
	s := newSink()

	// Act
	sent := 0
	for i := 0; i < subscriberBuffer+5; i++ {
		if s.send(&order.Order{ID: int64(i)}) {
			sent++
		}
	}

	// Assert
	assert.Equal(t, subscriberBuffer, sent)
	assert.Len(t, s.ch, subscriberBuffer)
}

func TestSinkDoubleClose(t *testing.T) {
	s := newSink()
	s.close()
	assert.NotPanics(t, s.close)
}
