package catalog

import (
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

// Filter keeps products in category (empty means any) whose title or
// description contains query, case-insensitively. The input order is kept.
func Filter(products []domain.Product, category, query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
