package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRow(fields map[string]string) Record {
	return Record{Row: 1, Fields: fields}
}

func TestProductValidateAccepts(t *testing.T) {
	d := NewProductDomain()

	rec, err := d.Validate(productRow(map[string]string{
		"id":          " p1 ",
		"name":        "USB Cable",
		"description": "2m braided",
		"brand":       "Acme",
		"category":    "electronics accessories",
		"price":       "₹1,299.004",
	}))
	require.NoError(t, err)

	p := rec.(ProductRecord)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "USB Cable", p.Name)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "Electronics Accessories", p.Category)
	assert.Equal(t, 1299.0, p.Price, "price rounds to 2 decimal places")
}

func TestProductValidateDefaultsCategory(t *testing.T) {
	d := NewProductDomain()

	rec, err := d.Validate(productRow(map[string]string{
		"id": "p1", "name": "Widget", "price": "5",
	}))
	require.NoError(t, err)
	assert.Equal(t, "General", rec.(ProductRecord).Category)
}

func TestProductValidateRejects(t *testing.T) {
	d := NewProductDomain()

	tests := []struct {
		name   string
		fields map[string]string
		field  string
	}{
		{"missing id", map[string]string{"name": "Widget", "price": "5"}, "id"},
		{"blank name", map[string]string{"id": "p1", "name": "  ", "price": "5"}, "name"},
		{"missing price", map[string]string{"id": "p1", "name": "Widget"}, "price"},
		{"non-numeric price", map[string]string{"id": "p1", "name": "Widget", "price": "free"}, "price"},
		{"zero price", map[string]string{"id": "p1", "name": "Widget", "price": "0"}, "price"},
		{"negative price", map[string]string{"id": "p1", "name": "Widget", "price": "-9.99"}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Validate(productRow(tt.fields))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestProductDedupKeyCaseInsensitive(t *testing.T) {
	d := NewProductDomain()

	a := ProductRecord{Name: "USB Cable", Brand: "Acme"}
	b := ProductRecord{Name: "usb cable", Brand: "ACME"}
	c := ProductRecord{Name: "USB Cable", Brand: "Other"}

	assert.Equal(t, d.DedupKey(a), d.DedupKey(b))
	assert.NotEqual(t, d.DedupKey(a), d.DedupKey(c))
}
