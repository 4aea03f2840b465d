// Package line provides the shared line item model, the pure line
// calculator and the document aggregator used by quotes and invoices.
package line

import (
	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
)

// DiscountKind determines how a line discount value is interpreted.
// Quotes and invoices share one kind set; the behavior is identical.
type DiscountKind string

const (
	// DiscountNone applies no discount; the value is ignored.
	DiscountNone DiscountKind = "NONE"

	// DiscountPercent interprets the value as a percentage in [0,100].
	DiscountPercent DiscountKind = "PERCENT"

	// DiscountAmount subtracts the value from the gross line amount,
	// floored at zero - a fixed discount may never invert the sign.
	DiscountAmount DiscountKind = "AMOUNT"
)

// Valid reports whether k is a known discount kind.
func (k DiscountKind) Valid() bool {
	switch k {
	case DiscountNone, DiscountPercent, DiscountAmount:
		return true
	}
	return false
}

// Input carries the raw line inputs. Nil fields take documented defaults:
// quantity 1, unit price 0, tax rate 0, discount NONE/0.
type Input struct {
	Quantity      *types.Money
	UnitPrice     *types.Money
	TaxRate       *types.Money
	DiscountKind  DiscountKind
	DiscountValue *types.Money
}

// Amounts are the derived values of a single line, at currency scale.
type Amounts struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// Compute derives a line's subtotal, tax and total from its inputs.
//
// The gross amount quantity*unitPrice is kept at line scale (4 digits) through
// the discount step; only the output values are reduced to currency scale,
// half-up. Out-of-range inputs fail, they are never silently coerced.
// The function is pure: no side effects beyond the returned values.
func Compute(in Input) (Amounts, error) {
	quantity := valueOr(in.Quantity, types.One())
	unitPrice := valueOr(in.UnitPrice, types.Zero())
	taxRate := valueOr(in.TaxRate, types.Zero())
	kind := in.DiscountKind
	if kind == "" {
		kind = DiscountNone
	}
	discountValue := valueOr(in.DiscountValue, types.Zero())

	if types.IsNegative(quantity) {
		return Amounts{}, apperror.NewFieldValidation("quantity", "quantity must not be negative")
	}
	if types.IsNegative(unitPrice) {
		return Amounts{}, apperror.NewFieldValidation("unitPrice", "unit price must not be negative")
	}
	if types.IsNegative(taxRate) {
		return Amounts{}, apperror.NewFieldValidation("taxRate", "tax rate must not be negative")
	}
	if types.IsNegative(discountValue) {
		return Amounts{}, apperror.NewFieldValidation("discountValue", "discount value must not be negative")
	}
	if !kind.Valid() {
		return Amounts{}, apperror.NewFieldValidation("discountType", "unknown discount type")
	}
	if kind == DiscountPercent && discountValue.GreaterThan(types.Hundred()) {
		return Amounts{}, apperror.NewFieldValidation("discountValue", "percentage discount must be between 0 and 100")
	}

	gross := types.RoundLine(quantity.Mul(unitPrice))

	discounted := gross
	switch kind {
	case DiscountPercent:
		factor := types.Hundred().Sub(discountValue)
		discounted = types.RoundLine(gross.Mul(factor).Div(types.Hundred()))
	case DiscountAmount:
		discounted = gross.Sub(discountValue)
		if types.IsNegative(discounted) {
			discounted = types.Zero()
		}
	}

	subtotal := types.RoundCurrency(discounted)
	tax := types.RoundCurrency(discounted.Mul(taxRate).Div(types.Hundred()))

	return Amounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// Totals are the aggregated amounts of a document, at currency scale.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// ZeroTotals returns all-zero totals (an empty line set is not an error).
func ZeroTotals() Totals {
	return Totals{
		Subtotal: types.Zero(),
		Tax:      types.Zero(),
		Total:    types.Zero(),
	}
}

// Aggregate sums line amounts into document totals.
// The stored document totals are a cache of this computation and must be
// refreshed after every line mutation, before any read.
func Aggregate(amounts []Amounts) Totals {
	totals := ZeroTotals()
	for _, a := range amounts {
		totals.Subtotal = totals.Subtotal.Add(a.Subtotal)
		totals.Tax = totals.Tax.Add(a.Tax)
	}
	totals.Subtotal = types.RoundCurrency(totals.Subtotal)
	totals.Tax = types.RoundCurrency(totals.Tax)
	totals.Total = totals.Subtotal.Add(totals.Tax)
	return totals
}

func valueOr(m *types.Money, fallback types.Money) types.Money {
	if m == nil {
		return fallback
	}
	return *m
}
