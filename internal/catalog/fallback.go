package catalog

import (
	_ "embed"
	"fmt"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackFile struct {
	Products    []fallbackProduct    `yaml:"products"`
	Collections []fallbackCollection `yaml:"collections"`
}

type fallbackProduct struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Price           float64           `yaml:"price"`
	SalePrice       *float64          `yaml:"sale_price"`
	Description     string            `yaml:"description"`
	FullDescription string            `yaml:"full_description"`
	Image           string            `yaml:"image"`
	Images          []string          `yaml:"images"`
	Category        string            `yaml:"category"`
	Type            string            `yaml:"type"`
	Tags            []string          `yaml:"tags"`
	Featured        bool              `yaml:"featured"`
	Stock           int               `yaml:"stock"`
	Rating          *float64          `yaml:"rating"`
	Reviews         *int              `yaml:"reviews"`
	Variants        []fallbackVariant `yaml:"variants"`
	Metafields      *struct {
		Benefits    []string `yaml:"benefits"`
		Ingredients string   `yaml:"ingredients"`
		HowToUse    string   `yaml:"how_to_use"`
	} `yaml:"metafields"`
	SEO *struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Keywords    []string `yaml:"keywords"`
	} `yaml:"seo"`
}

type fallbackVariant struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
	Stock int     `yaml:"stock"`
}

type fallbackCollection struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	BannerImage  string   `yaml:"banner_image"`
	All          bool     `yaml:"all"`
	ProductTypes []string `yaml:"product_types"`
	Featured     bool     `yaml:"featured"`
	SEO          *struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"seo"`
}

// Fallback returns the bundled catalog. Each call decodes a fresh copy, so callers may mutate it.
func Fallback() ([]model.Product, []model.Collection, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(fallbackYAML, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to decode bundled catalog: %w", err)
	}

	products := make([]model.Product, 0, len(file.Products))
	for _, fp := range file.Products {
		products = append(products, fp.toModel())
	}

	collections := make([]model.Collection, 0, len(file.Collections))
	for _, fc := range file.Collections {
		collections = append(collections, fc.toModel(products))
	}
	return products, collections, nil
}

func (fp fallbackProduct) toModel() model.Product {
	p := model.Product{
		ID:              fp.ID,
		Name:            fp.Name,
		Price:           decimal.NewFromFloat(fp.Price),
		Description:     fp.Description,
		FullDescription: fp.FullDescription,
		Image:           fp.Image,
		Images:          fp.Images,
		Category:        fp.Category,
		Type:            fp.Type,
		Tags:            fp.Tags,
		Featured:        fp.Featured,
		Stock:           fp.Stock,
		Rating:          fp.Rating,
		Reviews:         fp.Reviews,
	}
	if fp.SalePrice != nil {
		sale := decimal.NewFromFloat(*fp.SalePrice)
		p.SalePrice = &sale
	}
	for _, v := range fp.Variants {
		p.Variants = append(p.Variants, model.ProductVariant{
			ID:    v.ID,
			Name:  v.Name,
			Price: decimal.NewFromFloat(v.Price),
			Stock: v.Stock,
		})
	}
	if fp.Metafields != nil {
		p.Metafields = &model.Metafields{
			Benefits:    fp.Metafields.Benefits,
			Ingredients: fp.Metafields.Ingredients,
			HowToUse:    fp.Metafields.HowToUse,
		}
	}
	if fp.SEO != nil {
		p.SEO = &model.SEO{
			Title:       fp.SEO.Title,
			Description: fp.SEO.Description,
			Keywords:    fp.SEO.Keywords,
		}
	}
	return p
}

func (fc fallbackCollection) toModel(products []model.Product) model.Collection {
	types := make(map[string]struct{}, len(fc.ProductTypes))
	for _, t := range fc.ProductTypes {
		types[t] = struct{}{}
	}

	ids := make([]string, 0)
	for _, p := range products {
		if _, ok := types[p.Type]; fc.All || ok {
			ids = append(ids, p.ID)
		}
	}

	c := model.Collection{
		ID:          fc.ID,
		Name:        fc.Name,
		Slug:        model.Slugify(fc.Name),
		Description: fc.Description,
		Image:       fc.Image,
		BannerImage: fc.BannerImage,
		Products:    ids,
		Featured:    fc.Featured,
	}
	if fc.SEO != nil {
		c.SEO = &model.CollectionSEO{Title: fc.SEO.Title, Description: fc.SEO.Description}
	}
	return c
}
