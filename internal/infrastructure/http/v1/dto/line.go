package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fakturo/internal/domain/documents/line"
)

// LineRequest carries one raw line item on document create/update.
// Omitted numeric fields take documented defaults: quantity 1, unit
// price 0, tax rate 0, discount NONE/0.
type LineRequest struct {
	Description   string           `json:"description" binding:"required"`
	Unit          string           `json:"unit"`
	Notes         string           `json:"notes"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
	DiscountType  string           `json:"discountType"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
}

// ToInput converts the request to the calculator input.
func (r *LineRequest) ToInput() line.Input {
	return line.Input{
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		TaxRate:       r.TaxRate,
		DiscountKind:  line.DiscountKind(r.DiscountType),
		DiscountValue: r.DiscountValue,
	}
}

// LineResponse is the response body for a line item.
type LineResponse struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`

	SubtotalAmount decimal.Decimal `json:"lineSubtotalAmount"`
	TaxAmount      decimal.Decimal `json:"lineTaxAmount"`
	TotalAmount    decimal.Decimal `json:"lineTotalAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromLine creates response DTO from a line item.
func FromLine(it *line.Item) LineResponse {
	return LineResponse{
		ID:             it.ID.String(),
		Position:       it.Position,
		Description:    it.Description,
		Unit:           it.Unit,
		Notes:          it.Notes,
		Quantity:       it.Quantity,
		UnitPrice:      it.UnitPrice,
		TaxRate:        it.TaxRate,
		DiscountType:   string(it.DiscountKind),
		DiscountValue:  it.DiscountValue,
		SubtotalAmount: it.SubtotalAmount,
		TaxAmount:      it.TaxAmount,
		TotalAmount:    it.TotalAmount,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

// FromLines maps a slice of line items.
func FromLines(items []line.Item) []LineResponse {
	out := make([]LineResponse, 0, len(items))
	for i := range items {
		out = append(out, FromLine(&items[i]))
	}
	return out
}
