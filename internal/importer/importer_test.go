package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMapping = Mapping{
	"sku":            "Item Code",
	"name":           "Product Name",
	"description":    "Details",
	"price":          "Sale Price",
	"original_price": "MRP",
	"stock_quantity": "Qty",
	"category":       "Type",
	"images":         "Image URLs",
	"tags":           "Keywords",
}

func TestMapRow(t *testing.T) {
	row := map[string]string{
		"Item Code":    "RING-001",
		"Product Name": "Gold Ring",
		"Details":      "22k gold",
		"Sale Price":   "1499.50",
		"MRP":          "1999",
		"Qty":          "12",
		"Type":         "Rings",
		"Image URLs":   "https://a.jpg, https://b.jpg",
		"Keywords":     "gold, wedding",
	}

	in, err := MapRow(row, testMapping)
	require.NoError(t, err)

	assert.Equal(t, "RING-001", in.SKU)
	assert.Equal(t, "Gold Ring", in.Name)
	assert.Equal(t, 1499.50, in.Price)
	require.NotNil(t, in.OriginalPrice)
	assert.Equal(t, 1999.0, *in.OriginalPrice)
	assert.Equal(t, 12, in.StockQuantity)
	assert.Equal(t, []string{"https://a.jpg", "https://b.jpg"}, in.Images)
	assert.Equal(t, []string{"gold", "wedding"}, in.Tags)
}

func TestMapRowMissingSKU(t *testing.T) {
	row := map[string]string{"Product Name": "No SKU", "Type": "Rings"}

	_, err := MapRow(row, testMapping)
	assert.ErrorIs(t, err, ErrMissingSKU)
}

func TestMapRowInvalidCategory(t *testing.T) {
	row := map[string]string{
		"Item Code": "X-1",
		"Type":      "Watches",
	}

	_, err := MapRow(row, testMapping)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestMapRowPriceInvariant(t *testing.T) {
	row := map[string]string{
		"Item Code":  "X-2",
		"Type":       "Rings",
		"Sale Price": "2000",
		"MRP":        "1500",
	}

	_, err := MapRow(row, testMapping)
	assert.ErrorIs(t, err, ErrPriceInvariant)

	// Equal prices are rejected too: a discount must be a real discount.
	row["Sale Price"] = "1500"
	_, err = MapRow(row, testMapping)
	assert.ErrorIs(t, err, ErrPriceInvariant)
}

func TestMapRowNoOriginalPrice(t *testing.T) {
	row := map[string]string{
		"Item Code":  "X-3",
		"Type":       "Earrings",
		"Sale Price": "750",
	}

	in, err := MapRow(row, testMapping)
	require.NoError(t, err)
	assert.Nil(t, in.OriginalPrice)
}

func TestHeadersStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("sku,name , price\nA,B,1\n")...)

	headers, err := Headers(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "name", "price"}, headers)
}

func TestRows(t *testing.T) {
	data := []byte("sku, name\nR-1, Ring \nR-2,Band\n")

	rows, err := Rows(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ring", rows[0]["name"])
	assert.Equal(t, "R-2", rows[1]["sku"])
}

func TestConvertGoogleSheetsURL(t *testing.T) {
	raw := "https://docs.google.com/spreadsheets/d/1AbC_dEf-123/edit#gid=0"
	got := ConvertGoogleSheetsURL(raw)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC_dEf-123/export?format=csv&gid=0", got)

	// Non-sheets URLs pass through untouched.
	plain := "https://example.com/feed.csv"
	assert.Equal(t, plain, ConvertGoogleSheetsURL(plain))
}

func TestDocumentRowsJSON(t *testing.T) {
	data := []byte(`{"data":[{"sku":"J-1","price":99.5,"stock":3}]}`)

	rows, err := DocumentRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "J-1", rows[0]["sku"])
	assert.Equal(t, "99.5", rows[0]["price"])
	assert.Equal(t, "3", rows[0]["stock"])
}

func TestDocumentRowsFallsBackToCSV(t *testing.T) {
	data := []byte("sku,price\nC-1,100\n")

	rows, err := DocumentRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C-1", rows[0]["sku"])
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]byte(`{"sku":"Item Code"}`))
	require.NoError(t, err)
	assert.Equal(t, "Item Code", m["sku"])

	_, err = ParseMapping([]byte(`{}`))
	assert.Error(t, err)

	_, err = ParseMapping([]byte(`not json`))
	assert.Error(t, err)
}
