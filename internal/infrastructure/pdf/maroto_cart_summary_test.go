package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopfront/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "$0,00",
		"19.99":    "$19,99",
		"59.97":    "$59,97",
		"1234.5":   "$1.234,50",
		"1000000":  "$1.000.000,00",
		"-2500.25": "-$2.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderCartSummary_GeneraPDF(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	cart := dto.CartResponse{
		Items: []dto.CartLineResponse{{
			Product:  dto.ProductResponse{ID: 1, Title: "Producto 1", Price: price},
			Quantity: 3,
			Subtotal: price.Mul(decimal.NewFromInt(3)),
		}},
		Count: 3,
		Total: decimal.RequireFromString("59.97"),
	}

	doc, err := NewCartSummaryGenerator().RenderCartSummary(context.Background(), cart, dto.ProfileResponse{Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "la salida es un PDF")
}

func TestRenderCartSummary_CarritoVacio(t *testing.T) {
	doc, err := NewCartSummaryGenerator().RenderCartSummary(context.Background(), dto.CartResponse{}, dto.ProfileResponse{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestRenderCartSummary_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCartSummaryGenerator().RenderCartSummary(ctx, dto.CartResponse{}, dto.ProfileResponse{})
	assert.ErrorIs(t, err, context.Canceled)
}
