package line

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Item is one priced entry within a quote or invoice.
// Position defines print order and is unique within the owning document.
// The derived amount fields are never settable from outside: they are
// recomputed from the inputs on every mutation and before every read.
type Item struct {
	ID         id.ID `db:"id" json:"id"`
	DocumentID id.ID `db:"document_id" json:"documentId"`

	Position    int    `db:"position" json:"position"`
	Description string `db:"description" json:"description"`
	Notes       string `db:"notes" json:"notes,omitempty"`

	Quantity  types.Money `db:"quantity" json:"quantity"`
	Unit      string      `db:"unit" json:"unit,omitempty"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	TaxRate   types.Money `db:"tax_rate" json:"taxRate"`

	DiscountKind  DiscountKind `db:"discount_type" json:"discountType"`
	DiscountValue types.Money  `db:"discount_value" json:"discountValue"`

	// Derived (cache of Compute over the inputs above)
	SubtotalAmount types.Money `db:"line_subtotal_amount" json:"lineSubtotalAmount"`
	TaxAmount      types.Money `db:"line_tax_amount" json:"lineTaxAmount"`
	TotalAmount    types.Money `db:"line_total_amount" json:"lineTotalAmount"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewItem creates a line item from raw inputs, applying defaults and
// computing the derived amounts. Fails on out-of-range numeric inputs.
func NewItem(documentID id.ID, position int, description string, in Input) (*Item, error) {
	amounts, err := Compute(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &Item{
		ID:             id.New(),
		DocumentID:     documentID,
		Position:       position,
		Description:    description,
		Quantity:       valueOr(in.Quantity, types.One()),
		UnitPrice:      valueOr(in.UnitPrice, types.Zero()),
		TaxRate:        valueOr(in.TaxRate, types.Zero()),
		DiscountKind:   in.DiscountKind,
		DiscountValue:  valueOr(in.DiscountValue, types.Zero()),
		SubtotalAmount: amounts.Subtotal,
		TaxAmount:      amounts.Tax,
		TotalAmount:    amounts.Total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.DiscountKind == "" {
		item.DiscountKind = DiscountNone
	}
	return item, nil
}

// Recalculate refreshes the derived amounts from the current inputs.
// Must be called after any input mutation, before read or persist.
func (it *Item) Recalculate() error {
	amounts, err := Compute(Input{
		Quantity:      &it.Quantity,
		UnitPrice:     &it.UnitPrice,
		TaxRate:       &it.TaxRate,
		DiscountKind:  it.DiscountKind,
		DiscountValue: &it.DiscountValue,
	})
	if err != nil {
		return err
	}

	it.SubtotalAmount = amounts.Subtotal
	it.TaxAmount = amounts.Tax
	it.TotalAmount = amounts.Total
	it.UpdatedAt = time.Now().UTC()
	return nil
}

// Amounts returns the derived values, recomputing first so they are
// never stale.
func (it *Item) Amounts() (Amounts, error) {
	if err := it.Recalculate(); err != nil {
		return Amounts{}, err
	}
	return Amounts{
		Subtotal: it.SubtotalAmount,
		Tax:      it.TaxAmount,
		Total:    it.TotalAmount,
	}, nil
}

// Validate implements entity.Validatable.
func (it *Item) Validate(ctx context.Context) error {
	if id.IsNil(it.DocumentID) {
		return apperror.NewFieldValidation("documentId", "document is required")
	}
	if it.Position <= 0 {
		return apperror.NewFieldValidation("position", "position must be positive")
	}
	if it.Description == "" {
		return apperror.NewFieldValidation("description", "description is required")
	}
	// Numeric invariants are checked by the calculator
	_, err := Compute(Input{
		Quantity:      &it.Quantity,
		UnitPrice:     &it.UnitPrice,
		TaxRate:       &it.TaxRate,
		DiscountKind:  it.DiscountKind,
		DiscountValue: &it.DiscountValue,
	})
	return err
}

// AggregateItems recomputes every item and sums the results.
// This is the only sanctioned way to produce document totals.
func AggregateItems(items []Item) (Totals, error) {
	amounts := make([]Amounts, 0, len(items))
	for i := range items {
		a, err := items[i].Amounts()
		if err != nil {
			return Totals{}, err
		}
		amounts = append(amounts, a)
	}
	return Aggregate(amounts), nil
}
