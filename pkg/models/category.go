package models

// Category is the directory a workflow is stored under.
type Category string

const (
	CategoryAdmin           Category = "admin"
	CategoryFinance         Category = "finance"
	CategoryOperations      Category = "operations"
	CategorySales           Category = "sales"
	CategoryShopify         Category = "shopify"
	CategoryUtils           Category = "utils"
	CategoryVendorOperation Category = "vendor-operation"
)

// Categories returns every category in the order directories are scanned.
func Categories() []Category {
	return []Category{
		CategoryAdmin,
		CategoryFinance,
		CategoryOperations,
		CategorySales,
		CategoryShopify,
		CategoryUtils,
		CategoryVendorOperation,
	}
}

// IsValid reports whether c is one of the fixed categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}

	return false
}
