package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostalCode(t *testing.T) {
	testCases := []struct {
		name     string
		city     string
		expected string
	}{
		{name: "district town", city: "Púchov", expected: "02001"},
		{name: "village sharing the town code", city: "Streženice", expected: "02001"},
		{name: "village with own code", city: "Mojtín", expected: "02072"},
		{name: "outside coverage", city: "Bratislava", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			got := PostalCode(tc.city)

			// Assert
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestServed(t *testing.T) {
	assert.True(t, Served("Lazy pod Makytou"))
	assert.False(t, Served("Trenčín"))
	assert.False(t, Served(""))
}

func TestRequiresStreet(t *testing.T) {
	assert.True(t, RequiresStreet("Púchov"))
	assert.True(t, RequiresStreet("Beluša"))
	assert.False(t, RequiresStreet("Zubák"))
}

func TestMinimumOrder(t *testing.T) {
	testCases := []struct {
		name     string
		city     string
		part     string
		expected float64
	}{
		{name: "Čertov in Lazy pod Makytou", city: "Lazy pod Makytou", part: "Čertov", expected: 20},
		{name: "Čertov listed under Púchov", city: "Púchov", part: "Čertov", expected: 20},
		{name: "Hoštiná", city: "Púchov", part: "Hoštiná", expected: 20},
		{name: "Púchov town", city: "Púchov", part: "Púchov", expected: 15},
		{name: "Púchov without a part", city: "Púchov", part: "", expected: 15},
		{name: "village has no floor", city: "Dohňany", part: "Zbora", expected: 0},
		{name: "other city with Čertov part is free", city: "Beluša", part: "Čertov", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			got := MinimumOrder(tc.city, tc.part)

			// Assert
			assert.InDelta(t, tc.expected, got, 0.001)
		})
	}
}

func TestZonesIsACopy(t *testing.T) {
	// Act
	zs := Zones()
	zs[0].City = "mutated"

	// Assert
	assert.Equal(t, "Púchov", Zones()[0].City)
	assert.Len(t, zs, 19)
}
