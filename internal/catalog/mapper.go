package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

const (
	PlaceholderProductImage    = "https://images.unsplash.com/photo-1618160702438-9b02ab6515c9"
	PlaceholderCollectionImage = "https://images.unsplash.com/photo-1597362925123-77861d3fbac7"
	PlaceholderBannerImage     = "https://images.unsplash.com/photo-1498252992631-9380b51a1baf"

	DefaultCategory = "Uncategorized"
	DefaultType     = "General"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ProductID is the placeholder id for the product at 1-based row position n.
func ProductID(n int) string {
	return fmt.Sprintf("prod-%03d", n)
}

// CollectionID is the placeholder id for the collection at 1-based row position n.
func CollectionID(n int) string {
	return fmt.Sprintf("col-%03d", n)
}

// MapProducts converts product rows into products, in row order.
func MapProducts(rows []Row) []model.Product {
	products := make([]model.Product, 0, len(rows))
	for i, row := range rows {
		products = append(products, mapProduct(row, i+1))
	}
	return products
}

func mapProduct(row Row, position int) model.Product {
	id := row.Get("id")
	if id == "" {
		id = ProductID(position)
	}

	name := row.Get("name")
	if name == "" {
		name = "Product " + id
	}

	description := row.Get("description")
	fullDescription := row.Get("fullDescription")
	if fullDescription == "" {
		fullDescription = description
	}

	image := row.Get("image")
	if image == "" {
		image = PlaceholderProductImage
	}
	images := splitList(row.Get("images"))
	if len(images) == 0 {
		images = []string{image}
	}

	tags := splitList(row.Get("tags"))

	keywords := splitList(row.Get("seoKeywords"))
	if len(keywords) == 0 {
		keywords = tags
	}

	product := model.Product{
		ID:              id,
		Name:            name,
		Price:           parseDecimal(row.Get("price")).Or(decimal.Zero),
		SalePrice:       parseDecimal(row.Get("salePrice")).Ptr(),
		Description:     description,
		FullDescription: fullDescription,
		Image:           image,
		Images:          images,
		Category:        orDefault(row.Get("category"), DefaultCategory),
		Type:            orDefault(row.Get("type"), DefaultType),
		Tags:            tags,
		Featured:        parseBool(row.Get("featured")),
		Stock:           parseIntOr(row.Get("stock"), 0),
		Rating:          parseOptionalFloat(row.Get("rating")),
		Reviews:         parseOptionalInt(row.Get("reviews")),
		Metafields: &model.Metafields{
			Benefits:       splitList(row.Get("benefits")),
			Ingredients:    row.Get("ingredients"),
			HowToUse:       row.Get("howToUse"),
			Specifications: map[string]string{},
		},
		SEO: &model.SEO{
			Title:       orDefault(row.Get("seoTitle"), name),
			Description: orDefault(row.Get("seoDescription"), description),
			Keywords:    keywords,
		},
	}
	return product
}

// MapCollections converts collection rows into collections and resolves their product ids
// against products. A collection named "All" or "All Products" takes every product; any other
// collection takes a product when the product type equals the collection name (case-insensitive)
// or when the product id is listed in the products column.
func MapCollections(rows []Row, products []model.Product) []model.Collection {
	collections := make([]model.Collection, 0, len(rows))
	for i, row := range rows {
		collections = append(collections, mapCollection(row, i+1, products))
	}
	return collections
}

func mapCollection(row Row, position int, products []model.Product) model.Collection {
	id := row.Get("id")
	if id == "" {
		id = CollectionID(position)
	}

	rawName := row.Get("name")
	name := orDefault(rawName, "Collection "+id)
	description := row.Get("description")

	image := orDefault(row.Get("image"), PlaceholderCollectionImage)
	banner := row.Get("bannerImage")
	if banner == "" {
		banner = orDefault(row.Get("image"), PlaceholderBannerImage)
	}

	return model.Collection{
		ID:          id,
		Name:        name,
		Slug:        model.Slugify(name),
		Description: description,
		Image:       image,
		BannerImage: banner,
		Products:    MatchCollectionProducts(rawName, splitList(row.Get("products")), products),
		Featured:    parseBool(row.Get("featured")),
		SEO: &model.CollectionSEO{
			Title:       orDefault(row.Get("seoTitle"), name),
			Description: orDefault(row.Get("seoDescription"), description),
		},
	}
}

// IsAllCollection reports whether a collection name selects the whole catalog.
func IsAllCollection(name string) bool {
	lower := strings.ToLower(name)
	return lower == "all" || lower == "all products"
}

// MatchCollectionProducts applies the collection membership rule and returns ids in catalog order.
func MatchCollectionProducts(name string, listed []string, products []model.Product) []string {
	all := IsAllCollection(name)
	lowerName := strings.ToLower(name)

	listedSet := make(map[string]struct{}, len(listed))
	for _, id := range listed {
		listedSet[id] = struct{}{}
	}

	ids := make([]string, 0)
	for _, p := range products {
		if all || strings.ToLower(p.Type) == lowerName {
			ids = append(ids, p.ID)
			continue
		}
		if _, ok := listedSet[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

type optionalDecimal struct {
	value decimal.Decimal
	ok    bool
}

func (o optionalDecimal) Or(fallback decimal.Decimal) decimal.Decimal {
	if !o.ok {
		return fallback
	}
	return o.value
}

func (o optionalDecimal) Ptr() *decimal.Decimal {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

// parseDecimal reads the leading numeric prefix of s, so "12.50 USD" is 12.50 and "abc" is absent.
func parseDecimal(s string) optionalDecimal {
	prefix := floatPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return optionalDecimal{}
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return optionalDecimal{}
	}
	return optionalDecimal{value: d, ok: true}
}

func parseOptionalFloat(s string) *float64 {
	prefix := floatPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return nil
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseOptionalInt(s string) *int {
	prefix := intPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return nil
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return nil
	}
	return &n
}

func parseIntOr(s string, fallback int) int {
	if n := parseOptionalInt(s); n != nil {
		return *n
	}
	return fallback
}

func parseBool(s string) bool {
	return s == "true" || s == "1"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
