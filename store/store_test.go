package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EduardKrecmer/pizzeria-web/cart"
	"github.com/EduardKrecmer/pizzeria-web/order"
)

func sampleOrder() *order.Order {
	return &order.Order{
		CustomerName:  "Ján Novák",
		CustomerPhone: "0901 234 567",
		DeliveryType:  cart.Pickup,
		Items: []cart.Item{
			{PizzaID: 1, Name: "Margherita", Price: 6.50, Variant: cart.VariantRegular, Quantity: 1},
		},
		TotalAmount: 6.50,
		Status:      order.StatusPending,
	}
}

func TestMemorySaveAssignsSequentialIDs(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()

	// Act
	first := sampleOrder()
	second := sampleOrder()
	require.NoError(t, m.Save(ctx, first))
	require.NoError(t, m.Save(ctx, second))

	// Assert
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryKeepsExplicitIDs(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()

	o := sampleOrder()
	o.ID = 10
	require.NoError(t, m.Save(ctx, o))

	// Act
	next := sampleOrder()
	require.NoError(t, m.Save(ctx, next))

	// Assert
	assert.Equal(t, int64(11), next.ID)
}

func TestMemoryGet(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()
	o := sampleOrder()
	require.NoError(t, m.Save(ctx, o))

	// Act
	got, ok, err := m.Get(ctx, o.ID)

	// Assert
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ján Novák", got.CustomerName)

	_, ok, err = m.Get(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()
	o := sampleOrder()
	require.NoError(t, m.Save(ctx, o))

	// Act
	got, _, err := m.Get(ctx, o.ID)
	require.NoError(t, err)
	got.CustomerName = "mutated"

	// Assert
	again, _, err := m.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ján Novák", again.CustomerName)
}

func TestMemoryListNewestFirst(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Save(ctx, sampleOrder()))
	}

	// Act
	orders, err := m.List(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[2].ID)
}

func TestOrderRecordRoundTrip(t *testing.T) {
	// Arrange
	o := sampleOrder()
	o.ID = 5
	o.CustomerEmail = "jan.novak@example.com"
	o.DeliveryType = cart.Delivery
	o.DeliveryCity = "Púchov"
	o.DeliveryCityPart = "Nosice"
	o.DeliveryFee = 1.50
	o.Items[0].Extras = []cart.SelectedExtra{{ID: 4, Name: "Mozzarella", Price: 0.60}}

	// Act
	rec, err := toRecord(o)
	require.NoError(t, err)
	back, err := fromRecord(rec)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestFromRecordRejectsCorruptItems(t *testing.T) {
	// Arrange
	rec := &OrderRecord{ID: 1, Items: "{not json"}

	// Act
	_, err := fromRecord(rec)

	// Assert
	assert.Error(t, err)
}
