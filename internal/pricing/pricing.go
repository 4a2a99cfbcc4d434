// Package pricing computes cart totals and resolves discount codes. All
// derived values are recomputed from scratch on every call; nothing here is
// incrementally mutated state.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// TaxRatePercent is the flat tax applied to the discounted subtotal.
const TaxRatePercent = 10

var (
	// ErrMissingCode is returned for a blank discount code. The previously
	// applied discount, if any, is left untouched.
	ErrMissingCode = errors.New("discount code required")
	// ErrInvalidCode is returned for an unrecognized code. Applying an
	// invalid code clears any previously applied discount.
	ErrInvalidCode = errors.New("invalid discount code")
)

// codes is the closed set of known discount codes. Lookup is
// case-insensitive.
var codes = map[string]int{
	"SAVE10":  10,
	"SAVE20":  20,
	"SAVE30":  30,
	"WELCOME": 15,
	"NEWUSER": 25,
}

// Lookup resolves a code to its percentage.
func Lookup(code string) (int, bool) {
	pct, ok := codes[strings.ToUpper(strings.TrimSpace(code))]
	return pct, ok
}

// Totals is the full price breakdown for a list of line items.
type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent int     `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
}

// Compute derives subtotal, discount, tax and total from the items. An empty
// item list yields all zeros.
func Compute(items []domain.CartItem, discountPercent int) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		price := decimal.NewFromFloat(it.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	hundred := decimal.NewFromInt(100)
	discount := subtotal.Mul(decimal.NewFromInt(int64(discountPercent))).Div(hundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(decimal.NewFromInt(TaxRatePercent)).Div(hundred)
	total := taxable.Add(tax)

	return Totals{
		Subtotal:        round2(subtotal),
		DiscountPercent: discountPercent,
		DiscountAmount:  round2(discount),
		Tax:             round2(tax),
		Total:           round2(total),
	}
}

// Discount tracks the currently applied code for one cart session.
type Discount struct {
	Code    string `json:"code,omitempty"`
	Percent int    `json:"percent"`
	Applied bool   `json:"applied"`
}

// Apply resolves code and replaces the current discount. A blank code fails
// without touching prior state; an unknown code fails and clears it.
func (d *Discount) Apply(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ErrMissingCode
	}
	pct, ok := Lookup(trimmed)
	if !ok {
		d.Remove()
		return ErrInvalidCode
	}
	d.Code = strings.ToUpper(trimmed)
	d.Percent = pct
	d.Applied = true
	return nil
}

// Remove resets the discount to its zero state.
func (d *Discount) Remove() {
	d.Code = ""
	d.Percent = 0
	d.Applied = false
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
