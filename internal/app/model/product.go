package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are loaded in bulk and treated as read-only
// by browsing code; admin jobs replace whole snapshots instead of editing in place.
type Product struct {
	ID              string           `json:"id" validate:"required"`
	Name            string           `json:"name" validate:"required"`
	Price           decimal.Decimal  `json:"price" validate:"gte=0"`
	SalePrice       *decimal.Decimal `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	Description     string           `json:"description"`
	FullDescription string           `json:"full_description,omitempty"`
	Image           string           `json:"image"`
	Images          []string         `json:"images,omitempty"`
	Category        string           `json:"category"`
	Type            string           `json:"type"`
	Tags            []string         `json:"tags,omitempty"`
	Variants        []ProductVariant `json:"variants,omitempty" validate:"dive"`
	Featured        bool             `json:"featured"`
	Stock           int              `json:"stock" validate:"gte=0"`
	Rating          *float64         `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews         *int             `json:"reviews,omitempty" validate:"omitempty,gte=0"`
	Metafields      *Metafields      `json:"metafields,omitempty"`
	SEO             *SEO             `json:"seo,omitempty"`
}

// ProductVariant is a purchasable sub-option owned by exactly one product.
type ProductVariant struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Image string          `json:"image,omitempty"`
	Stock int             `json:"stock" validate:"gte=0"`
}

type Metafields struct {
	Benefits       []string          `json:"benefits"`
	Ingredients    string            `json:"ingredients"`
	HowToUse       string            `json:"how_to_use"`
	Specifications map[string]string `json:"specifications"`
}

type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// FindVariant looks a variant up by name, case-insensitively.
func (p Product) FindVariant(name string) *ProductVariant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].Name, name) {
			return &p.Variants[i]
		}
	}
	return nil
}
