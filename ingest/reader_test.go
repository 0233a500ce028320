package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceMapsHeaderAliases(t *testing.T) {
	path := writeCSV(t, "Product ID,Product Name,Selling Price\np1,Widget,9.99\n")

	src, err := openCSVSource(path, productColumnMap)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Row)
	assert.Equal(t, "p1", rec.Get("id"))
	assert.Equal(t, "Widget", rec.Get("name"))
	assert.Equal(t, "9.99", rec.Get("price"))

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVSourceUnmappedHeaderPassesThrough(t *testing.T) {
	path := writeCSV(t, "id,Warehouse Zone\np1,A3\n")

	src, err := openCSVSource(path, productColumnMap)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "A3", rec.Get("warehouse_zone"))
}

func TestCSVSourceShortRowIsRowError(t *testing.T) {
	path := writeCSV(t, "id,name,price\np1,Widget\np2,Gadget,4.50\n")

	src, err := openCSVSource(path, nil)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	var rowErr *rowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.row)
	assert.Contains(t, rowErr.reason, "expected 3 columns, got 2")

	// The malformed row does not poison the rest of the source
	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Row)
	assert.Equal(t, "p2", rec.Get("id"))
}

func TestCSVSourceEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := openCSVSource(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row required")
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := openCSVSource(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
}

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, "id", canonicalField(" Product ID ", productColumnMap))
	assert.Equal(t, "price", canonicalField("DISCOUNTED PRICE", productColumnMap))
	assert.Equal(t, "sku_code", canonicalField("SKU Code", productColumnMap))
}
