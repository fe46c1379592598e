// Package layout maps workflow names onto the local repository's
// <category>/<stem>.json tree.
package layout

import (
	"strings"

	"github.com/dukex/n8nsync/pkg/models"
)

type categoryRule struct {
	keywords []string
	category models.Category
}

// Evaluated top to bottom; a name matching several rules takes the first.
var categoryRules = []categoryRule{
	{keywords: []string{"tner", "alwc"}, category: models.CategorySales},
	{keywords: []string{"hoz"}, category: models.CategorySales},
	{keywords: []string{"wrap"}, category: models.CategorySales},
	{keywords: []string{"xero", "invoice", "payable"}, category: models.CategoryFinance},
	{keywords: []string{"shopify", "cart", "product"}, category: models.CategoryShopify},
	{keywords: []string{"job", "schedule", "servicem8"}, category: models.CategoryOperations},
	{keywords: []string{"telegram", "whatsapp"}, category: models.CategorySales},
}

// Categorize returns the storage category for a workflow name. Names that
// match no rule, including the empty name, land in utils.
func Categorize(name string) models.Category {
	lower := strings.ToLower(name)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}

	return models.CategoryUtils
}
