package catalog

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
)

// ProductColumns is the products file header in export order.
var ProductColumns = []string{
	"id", "name", "price", "salePrice", "stock", "rating", "reviews", "tags", "image", "images",
	"featured", "category", "type", "description", "fullDescription", "benefits", "ingredients",
	"howToUse", "seoTitle", "seoDescription", "seoKeywords",
}

// CollectionColumns is the collections file header in export order.
var CollectionColumns = []string{
	"id", "name", "description", "image", "bannerImage", "products", "featured", "seoTitle", "seoDescription",
}

// The file format has no quoting, so delimiters inside values cannot survive an export.
var cellCleaner = strings.NewReplacer(",", "", "\r", "", "\n", " ")

func cell(value string) string {
	return cellCleaner.Replace(value)
}

func listCell(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		cleaned = append(cleaned, strings.ReplaceAll(cell(v), ";", ""))
	}
	return strings.Join(cleaned, ";")
}

// ProductRecord renders a product as one row of values aligned with ProductColumns.
func ProductRecord(p model.Product) []string {
	salePrice := ""
	if p.SalePrice != nil {
		salePrice = p.SalePrice.String()
	}
	rating := ""
	if p.Rating != nil {
		rating = strconv.FormatFloat(*p.Rating, 'f', -1, 64)
	}
	reviews := ""
	if p.Reviews != nil {
		reviews = strconv.Itoa(*p.Reviews)
	}

	var benefits []string
	var ingredients, howToUse string
	if p.Metafields != nil {
		benefits = p.Metafields.Benefits
		ingredients = p.Metafields.Ingredients
		howToUse = p.Metafields.HowToUse
	}
	var seoTitle, seoDescription string
	var seoKeywords []string
	if p.SEO != nil {
		seoTitle = p.SEO.Title
		seoDescription = p.SEO.Description
		seoKeywords = p.SEO.Keywords
	}

	return []string{
		cell(p.ID), cell(p.Name), p.Price.String(), salePrice, strconv.Itoa(p.Stock), rating, reviews,
		listCell(p.Tags), cell(p.Image), listCell(p.Images), strconv.FormatBool(p.Featured),
		cell(p.Category), cell(p.Type), cell(p.Description), cell(p.FullDescription),
		listCell(benefits), cell(ingredients), cell(howToUse), cell(seoTitle), cell(seoDescription),
		listCell(seoKeywords),
	}
}

// CollectionRecord renders a collection as one row of values aligned with CollectionColumns.
func CollectionRecord(c model.Collection) []string {
	var seoTitle, seoDescription string
	if c.SEO != nil {
		seoTitle = c.SEO.Title
		seoDescription = c.SEO.Description
	}
	return []string{
		cell(c.ID), cell(c.Name), cell(c.Description), cell(c.Image), cell(c.BannerImage),
		listCell(c.Products), strconv.FormatBool(c.Featured), cell(seoTitle), cell(seoDescription),
	}
}

func WriteProductsCSV(w io.Writer, products []model.Product) error {
	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, ProductRecord(p))
	}
	return writeLines(w, ProductColumns, records)
}

func WriteCollectionsCSV(w io.Writer, collections []model.Collection) error {
	records := make([][]string, 0, len(collections))
	for _, c := range collections {
		records = append(records, CollectionRecord(c))
	}
	return writeLines(w, CollectionColumns, records)
}

func writeLines(w io.Writer, header []string, records [][]string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",") + "\n"); err != nil {
		return err
	}
	for _, record := range records {
		if _, err := bw.WriteString(strings.Join(record, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
