package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/config"
)

func testCalculator() *Calculator {
	return NewCalculator(&config.Config{
		Shipping: config.ShippingConfig{FreeThreshold: 1000, FlatRate: 100},
	})
}

func TestLineTotal(t *testing.T) {
	line := Line{Quantity: 3, UnitPrice: 450}
	assert.Equal(t, int64(1350), line.Total())
}

func TestShippingFor(t *testing.T) {
	calc := testCalculator()

	tests := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{"zero subtotal pays flat rate", 0, 100},
		{"below threshold pays flat rate", 850, 100},
		{"exactly at threshold still pays", 1000, 100},
		{"just above threshold ships free", 1001, 0},
		{"well above threshold ships free", 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.ShippingFor(tt.subtotal))
		})
	}
}

func TestCalculate(t *testing.T) {
	calc := testCalculator()

	t.Run("free shipping above threshold", func(t *testing.T) {
		quote := calc.Calculate([]Line{
			{Quantity: 2, UnitPrice: 450},
			{Quantity: 1, UnitPrice: 200},
		})
		assert.Equal(t, int64(1100), quote.Subtotal)
		assert.Equal(t, int64(0), quote.Shipping)
		assert.Equal(t, int64(1100), quote.Total)
	})

	t.Run("flat rate below threshold", func(t *testing.T) {
		quote := calc.Calculate([]Line{
			{Quantity: 1, UnitPrice: 850},
		})
		assert.Equal(t, int64(850), quote.Subtotal)
		assert.Equal(t, int64(100), quote.Shipping)
		assert.Equal(t, int64(950), quote.Total)
	})

	t.Run("empty cart still quotes flat rate", func(t *testing.T) {
		quote := calc.Calculate(nil)
		assert.Equal(t, int64(0), quote.Subtotal)
		assert.Equal(t, int64(100), quote.Shipping)
		assert.Equal(t, int64(100), quote.Total)
	})
}
