package pricing

import (
	"errors"
	"testing"

	"storefront/internal/domain"
)

func items(prices []float64, qtys []int) []domain.CartItem {
	out := make([]domain.CartItem, len(prices))
	for i := range prices {
		out[i] = domain.CartItem{Title: "p", Price: prices[i], Quantity: qtys[i]}
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, 0)
	if got.Subtotal != 0 || got.DiscountAmount != 0 || got.Tax != 0 || got.Total != 0 {
		t.Fatalf("expected all zeros, got %+v", got)
	}
}

func TestComputeSubtotalAndTax(t *testing.T) {
	// 2*30 + 1*40 = 100, no discount, tax 10, total 110.
	got := Compute(items([]float64{30, 40}, []int{2, 1}), 0)
	if got.Subtotal != 100 {
		t.Fatalf("subtotal = %v, want 100", got.Subtotal)
	}
	if got.Tax != 10 {
		t.Fatalf("tax = %v, want 10", got.Tax)
	}
	if got.Total != 110 {
		t.Fatalf("total = %v, want 110", got.Total)
	}
}

func TestComputeWithDiscount(t *testing.T) {
	// subtotal 100, 10% off -> taxable 90, tax 9, total 99.
	got := Compute(items([]float64{50}, []int{2}), 10)
	if got.DiscountAmount != 10 {
		t.Fatalf("discount = %v, want 10", got.DiscountAmount)
	}
	if got.Tax != 9 {
		t.Fatalf("tax = %v, want 9", got.Tax)
	}
	if got.Total != 99 {
		t.Fatalf("total = %v, want 99", got.Total)
	}
}

func TestComputeRounding(t *testing.T) {
	// 3 * 19.99 = 59.97; 15% -> 8.9955 -> 9.00 after rounding.
	got := Compute(items([]float64{19.99}, []int{3}), 15)
	if got.Subtotal != 59.97 {
		t.Fatalf("subtotal = %v, want 59.97", got.Subtotal)
	}
	if got.DiscountAmount != 9.00 {
		t.Fatalf("discount = %v, want 9.00", got.DiscountAmount)
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	for _, code := range []string{"SAVE10", "save10", " Save10 "} {
		pct, ok := Lookup(code)
		if !ok || pct != 10 {
			t.Fatalf("Lookup(%q) = %d,%v, want 10,true", code, pct, ok)
		}
	}
	if _, ok := Lookup("XXXX"); ok {
		t.Fatalf("expected unknown code to miss")
	}
}

func TestDiscountApply(t *testing.T) {
	var d Discount
	if err := d.Apply("welcome"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Applied || d.Percent != 15 || d.Code != "WELCOME" {
		t.Fatalf("unexpected state: %+v", d)
	}

	// Applying another code replaces, never stacks.
	if err := d.Apply("NEWUSER"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Percent != 25 {
		t.Fatalf("percent = %d, want 25", d.Percent)
	}
}

func TestDiscountApplyBlankLeavesState(t *testing.T) {
	d := Discount{Code: "SAVE20", Percent: 20, Applied: true}
	err := d.Apply("   ")
	if !errors.Is(err, ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
	if !d.Applied || d.Percent != 20 {
		t.Fatalf("blank code must not touch prior discount: %+v", d)
	}
}

func TestDiscountApplyInvalidClearsState(t *testing.T) {
	d := Discount{Code: "SAVE20", Percent: 20, Applied: true}
	err := d.Apply("XXXX")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if d.Applied || d.Percent != 0 {
		t.Fatalf("invalid code must clear prior discount: %+v", d)
	}
}

func TestDiscountRemove(t *testing.T) {
	d := Discount{Code: "SAVE30", Percent: 30, Applied: true}
	d.Remove()
	if d.Applied || d.Percent != 0 || d.Code != "" {
		t.Fatalf("unexpected state after remove: %+v", d)
	}
}
