package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T, transport *fakeTransport) *Notifier {
	t.Helper()
	return NewNotifier(testSettings(), newTestDispatcher(t, transport, nil))
}

func TestOrderPlacedSendsBothEmails(t *testing.T) {
	// Arrange
	transport := &fakeTransport{}
	n := newTestNotifier(t, transport)

	// Act
	n.OrderPlaced(context.Background(), testOrder())

	// Assert
	assert.Equal(t, 2, transport.sendCount())
}

func TestOrderPlacedSkipsCustomerWithoutEmail(t *testing.T) {
	// Arrange
	transport := &fakeTransport{}
	n := newTestNotifier(t, transport)
	o := testOrder()
	o.CustomerEmail = ""

	// Act
	n.OrderPlaced(context.Background(), o)

	// Assert
	require.Equal(t, 1, transport.sendCount())
	assert.Equal(t, []string{"kuchyna@pizzeria-janicek.sk"}, transport.lastTo)
}

func TestOrderPlacedReturnsDespiteFailures(t *testing.T) {
	// Arrange
	transport := &fakeTransport{failFirst: 100}
	n := newTestNotifier(t, transport)

	// Act
	n.OrderPlaced(context.Background(), testOrder())

	// Assert
	// 3 customer attempts and 5 restaurant attempts, all failed.
	assert.Equal(t, 8, transport.sendCount())
}
