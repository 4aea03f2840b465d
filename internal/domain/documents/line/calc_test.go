package line

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func TestCompute_PlainLine(t *testing.T) {
	// quantity=2, unitPrice=10.00, taxRate=22, no discount
	got, err := Compute(Input{
		Quantity:  money("2"),
		UnitPrice: money("10.00"),
		TaxRate:   money("22"),
	})
	require.NoError(t, err)

	assert.Equal(t, "20.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "4.40", got.Tax.StringFixed(2))
	assert.Equal(t, "24.40", got.Total.StringFixed(2))
}

func TestCompute_PercentDiscount(t *testing.T) {
	// quantity=1, unitPrice=100.00, 50% discount, taxRate=10
	got, err := Compute(Input{
		Quantity:      money("1"),
		UnitPrice:     money("100.00"),
		TaxRate:       money("10"),
		DiscountKind:  DiscountPercent,
		DiscountValue: money("50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "50.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", got.Tax.StringFixed(2))
	assert.Equal(t, "55.00", got.Total.StringFixed(2))
}

func TestCompute_AmountDiscountFlooredAtZero(t *testing.T) {
	// quantity=1, unitPrice=5.00, fixed discount 20.00 larger than the line
	got, err := Compute(Input{
		Quantity:      money("1"),
		UnitPrice:     money("5.00"),
		DiscountKind:  DiscountAmount,
		DiscountValue: money("20.00"),
	})
	require.NoError(t, err)

	assert.True(t, got.Subtotal.IsZero(), "fixed discount may never invert sign")
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestCompute_Defaults(t *testing.T) {
	// All inputs absent: quantity 1, price 0, tax 0, no discount.
	got, err := Compute(Input{})
	require.NoError(t, err)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())

	// Absent quantity defaults to 1, not 0.
	got, err = Compute(Input{UnitPrice: money("9.90"), TaxRate: money("22")})
	require.NoError(t, err)
	assert.Equal(t, "9.90", got.Subtotal.StringFixed(2))
	assert.Equal(t, "2.18", got.Tax.StringFixed(2))
	assert.Equal(t, "12.08", got.Total.StringFixed(2))
}

func TestCompute_RoundingHalfUp(t *testing.T) {
	// 3 * 0.3333 = 0.9999 at line scale; 1.00 at currency scale.
	got, err := Compute(Input{
		Quantity:  money("3"),
		UnitPrice: money("0.3333"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1.00", got.Subtotal.StringFixed(2))

	// Tax of 0.125 rounds half-up to 0.13: subtotal 2.50 at 5%.
	got, err = Compute(Input{
		Quantity:  money("1"),
		UnitPrice: money("2.50"),
		TaxRate:   money("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.13", got.Tax.StringFixed(2))
	assert.Equal(t, "2.63", got.Total.StringFixed(2))
}

func TestCompute_TotalIsSubtotalPlusTax(t *testing.T) {
	inputs := []Input{
		{Quantity: money("7"), UnitPrice: money("13.37"), TaxRate: money("22")},
		{Quantity: money("0.5"), UnitPrice: money("99.99"), TaxRate: money("4")},
		{Quantity: money("12"), UnitPrice: money("0.07"), TaxRate: money("10"), DiscountKind: DiscountPercent, DiscountValue: money("15")},
		{Quantity: money("3"), UnitPrice: money("45.10"), DiscountKind: DiscountAmount, DiscountValue: money("10")},
	}

	for i, in := range inputs {
		got, err := Compute(in)
		require.NoError(t, err, "input %d", i)
		assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax)), "input %d: total must equal subtotal+tax", i)

		// Discount never increases the line amount.
		gross := types.RoundCurrency(in.Quantity.Mul(*in.UnitPrice))
		assert.True(t, got.Subtotal.LessThanOrEqual(gross), "input %d: subtotal must not exceed gross", i)
	}
}

func TestCompute_RejectsNegativeInputs(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		field string
	}{
		{"negative quantity", Input{Quantity: money("-1")}, "quantity"},
		{"negative unit price", Input{UnitPrice: money("-0.01")}, "unitPrice"},
		{"negative tax rate", Input{TaxRate: money("-5")}, "taxRate"},
		{"negative discount value", Input{DiscountKind: DiscountAmount, DiscountValue: money("-3")}, "discountValue"},
		{"percent discount above 100", Input{DiscountKind: DiscountPercent, DiscountValue: money("101")}, "discountValue"},
		{"unknown discount kind", Input{DiscountKind: DiscountKind("HALF")}, "discountType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.in)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tc.field, appErr.Details["field"])
		})
	}
}

func TestAggregate(t *testing.T) {
	a1 := Amounts{Subtotal: types.MustMoney("20.00"), Tax: types.MustMoney("4.40"), Total: types.MustMoney("24.40")}
	a2 := Amounts{Subtotal: types.MustMoney("50.00"), Tax: types.MustMoney("5.00"), Total: types.MustMoney("55.00")}

	totals := Aggregate([]Amounts{a1, a2})
	assert.Equal(t, "70.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "9.40", totals.Tax.StringFixed(2))
	assert.Equal(t, "79.40", totals.Total.StringFixed(2))
}

func TestAggregate_EmptyYieldsZeros(t *testing.T) {
	totals := Aggregate(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestAggregate_ZeroValueLineDoesNotChangeTotals(t *testing.T) {
	base := []Amounts{
		{Subtotal: types.MustMoney("10.00"), Tax: types.MustMoney("2.20"), Total: types.MustMoney("12.20")},
	}
	withZero := append(base, Amounts{Subtotal: types.Zero(), Tax: types.Zero(), Total: types.Zero()})

	before := Aggregate(base)
	after := Aggregate(withZero)

	assert.True(t, before.Subtotal.Equal(after.Subtotal))
	assert.True(t, before.Tax.Equal(after.Tax))
	assert.True(t, before.Total.Equal(after.Total))
}

func TestNewItem_ComputesDerivedAmounts(t *testing.T) {
	docID := id.New()
	item, err := NewItem(docID, 1, "Consulting", Input{
		Quantity:  money("2"),
		UnitPrice: money("10.00"),
		TaxRate:   money("22"),
	})
	require.NoError(t, err)

	assert.Equal(t, docID, item.DocumentID)
	assert.Equal(t, DiscountNone, item.DiscountKind)
	assert.Equal(t, "20.00", item.SubtotalAmount.StringFixed(2))
	assert.Equal(t, "4.40", item.TaxAmount.StringFixed(2))
	assert.Equal(t, "24.40", item.TotalAmount.StringFixed(2))
}

func TestItem_RecalculateAfterMutation(t *testing.T) {
	item, err := NewItem(id.New(), 1, "Hosting", Input{
		Quantity:  money("1"),
		UnitPrice: money("100.00"),
		TaxRate:   money("10"),
	})
	require.NoError(t, err)

	item.DiscountKind = DiscountPercent
	item.DiscountValue = types.MustMoney("50")
	require.NoError(t, item.Recalculate())

	assert.Equal(t, "50.00", item.SubtotalAmount.StringFixed(2))
	assert.Equal(t, "5.00", item.TaxAmount.StringFixed(2))
	assert.Equal(t, "55.00", item.TotalAmount.StringFixed(2))
}

func TestItem_Validate(t *testing.T) {
	item, err := NewItem(id.New(), 1, "Design work", Input{UnitPrice: money("40")})
	require.NoError(t, err)
	require.NoError(t, item.Validate(t.Context()))

	item.Description = ""
	assert.Error(t, item.Validate(t.Context()))

	item.Description = "Design work"
	item.Position = 0
	assert.Error(t, item.Validate(t.Context()))
}

func TestAggregateItems(t *testing.T) {
	docID := id.New()
	first, err := NewItem(docID, 1, "Item A", Input{Quantity: money("2"), UnitPrice: money("10.00"), TaxRate: money("22")})
	require.NoError(t, err)
	second, err := NewItem(docID, 2, "Item B", Input{Quantity: money("1"), UnitPrice: money("100.00"), TaxRate: money("10"), DiscountKind: DiscountPercent, DiscountValue: money("50")})
	require.NoError(t, err)

	totals, err := AggregateItems([]Item{*first, *second})
	require.NoError(t, err)
	assert.Equal(t, "70.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "9.40", totals.Tax.StringFixed(2))
	assert.Equal(t, "79.40", totals.Total.StringFixed(2))
}
