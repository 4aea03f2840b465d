package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
	"fakturo/internal/domain/documents/invoice"
)

func TestFromInvoice_DisplayNumber(t *testing.T) {
	doc := invoice.New(id.New(), id.New())

	resp := FromInvoice(doc)
	assert.Nil(t, resp.DisplayNumber, "draft has no display number")

	year, number := 2026, 42
	doc.Year = &year
	doc.Number = &number

	resp = FromInvoice(doc)
	require.NotNil(t, resp.DisplayNumber)
	assert.Equal(t, "INV-2026-00042", *resp.DisplayNumber)
}
