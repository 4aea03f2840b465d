package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
	"fakturo/internal/domain/documents/quote"
)

func TestFromQuote_DisplayNumber(t *testing.T) {
	doc := quote.New(id.New(), id.New())

	resp := FromQuote(doc)
	assert.Nil(t, resp.DisplayNumber, "draft has no display number")

	year, number := 2026, 7
	doc.Year = &year
	doc.Number = &number

	resp = FromQuote(doc)
	require.NotNil(t, resp.DisplayNumber)
	assert.Equal(t, "QUO-2026-00007", *resp.DisplayNumber)
}
