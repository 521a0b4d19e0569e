package service

import (
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
)

// Search returns products whose name, description or any tag contains term, ignoring case.
// A blank term matches nothing. Surrounding spaces are part of the term. Catalog order is preserved.
func Search(products []model.Product, term string) []model.Product {
	results := make([]model.Product, 0)
	if strings.TrimSpace(term) == "" {
		return results
	}
	term = strings.ToLower(term)
	for _, p := range products {
		if matchesTerm(p, term) {
			results = append(results, p)
		}
	}
	return results
}

// matchesTerm expects term already lower-cased.
func matchesTerm(p model.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
