package model

import "strings"

// Collection is a curated grouping of product ids. It references products, it does not own them.
type Collection struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	BannerImage string         `json:"banner_image,omitempty"`
	Products    []string       `json:"products"`
	Featured    bool           `json:"featured"`
	SEO         *CollectionSEO `json:"seo,omitempty"`
}

type CollectionSEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Slugify lower-cases a collection name and replaces whitespace runs with "-".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
