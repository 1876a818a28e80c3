// internal/domain/pricing/calculator.go
package pricing

import "github.com/your-org/storefront-backend/internal/config"

// Line is one cart line as the calculator sees it: a quantity at the
// product's current unit price.
type Line struct {
	Quantity  int
	UnitPrice int64
}

// Total returns the line total
func (l Line) Total() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// Quote is the calculated price breakdown for a set of lines
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Calculator derives cart and order totals from current product prices.
// Both the cart view and order creation go through here so the two can
// never drift apart.
type Calculator struct {
	freeThreshold int64
	flatRate      int64
}

// NewCalculator creates a calculator with the configured shipping rule
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{
		freeThreshold: cfg.Shipping.FreeThreshold,
		flatRate:      cfg.Shipping.FlatRate,
	}
}

// Calculate computes subtotal, shipping and grand total for the given lines
func (c *Calculator) Calculate(lines []Line) Quote {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Total()
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: c.ShippingFor(subtotal),
		Total:    subtotal + c.ShippingFor(subtotal),
	}
}

// ShippingFor returns the shipping fee for a subtotal. Free above the
// threshold, flat rate otherwise; the threshold itself still pays.
func (c *Calculator) ShippingFor(subtotal int64) int64 {
	if subtotal > c.freeThreshold {
		return 0
	}
	return c.flatRate
}
