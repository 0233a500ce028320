package ingest

import (
	"strconv"
	"strings"
)

// productColumnMap translates the header aliases seen across SmartShop
// catalog exports to canonical field names.
var productColumnMap = map[string]string{
	"product_id":          "id",
	"asin":                "id",
	"uniq_id":             "id",
	"product_name":        "name",
	"product_title":       "name",
	"title":               "name",
	"desc":                "description",
	"product_description": "description",
	"actual_price":        "price",
	"selling_price":       "price",
	"discounted_price":    "price",
	"brand_name":          "brand",
	"main_category":       "category",
	"sub_category":        "category",
	"product_category":    "category",
}

// ProductDomain ingests product catalog records.
//
// Dedup policy: lowercase(name) + lowercase(brand). Two rows differing only
// in case are the same product.
type ProductDomain struct{}

// NewProductDomain returns the product ingestion policy.
func NewProductDomain() *ProductDomain { return &ProductDomain{} }

func (*ProductDomain) Name() string { return DomainProducts }

func (*ProductDomain) ColumnMap() map[string]string { return productColumnMap }

func (*ProductDomain) Validate(raw Record) (ValidatedRecord, error) {
	id := strings.TrimSpace(raw.Get("id"))
	if id == "" {
		return nil, validationErrorf("id", "product id is required")
	}

	name := strings.TrimSpace(raw.Get("name"))
	if name == "" {
		return nil, validationErrorf("name", "product name is required")
	}

	category := strings.TrimSpace(raw.Get("category"))
	if category == "" {
		category = "General"
	}

	// Catalog exports carry prices like "₹1,299.00" or "$ 24.99"
	rawPrice := stripCurrency(raw.Get("price"))
	if rawPrice == "" {
		return nil, validationErrorf("price", "price is required")
	}
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil {
		return nil, validationErrorf("price", "not a number: %q", raw.Get("price"))
	}
	if price <= 0 {
		return nil, validationErrorf("price", "must be positive, got %g", price)
	}

	return ProductRecord{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(raw.Get("description")),
		Brand:       strings.TrimSpace(raw.Get("brand")),
		Category:    titleCase(category),
		Price:       round2(price),
	}, nil
}

func (*ProductDomain) DedupKey(rec ValidatedRecord) string {
	p := rec.(ProductRecord)
	return strings.ToLower(p.Name) + "|" + strings.ToLower(p.Brand)
}

func (*ProductDomain) Prepare(rec ValidatedRecord) ValidatedRecord { return rec }
