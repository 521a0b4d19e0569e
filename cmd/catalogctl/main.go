// Command catalogctl converts and checks catalog files offline.
//
//	catalogctl convert <in.xlsx> <out.csv>
//	catalogctl check <products.csv|xlsx> [collections.csv|xlsx]
//	catalogctl export <products.csv> [collections.csv] <out.xlsx>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/catalog"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

const usage = `Usage:
  catalogctl convert <in.xlsx> <out.csv>
  catalogctl check <products> [collections]
  catalogctl export <products> [collections] <out.xlsx>`

var errUsage = errors.New(usage)

func main() {
	logger.Initialize(logger.Config{Level: "warn", Format: "console", Output: os.Stderr})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "convert":
		if len(rest) != 2 {
			return errUsage
		}
		return convert(rest[0], rest[1], out)
	case "check":
		if len(rest) < 1 || len(rest) > 2 {
			return errUsage
		}
		return check(rest, out)
	case "export":
		if len(rest) < 2 || len(rest) > 3 {
			return errUsage
		}
		return export(rest[:len(rest)-1], rest[len(rest)-1], out)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// convert maps a spreadsheet's first sheet as products and writes it in the CSV file format.
func convert(in, outPath string, out io.Writer) error {
	products, _, err := loadFiles([]string{in})
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := catalog.WriteProductsCSV(f, products); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Fprintf(out, "Wrote %d products to %s\n", len(products), outPath)
	return nil
}

// check maps the files the way the server does and prints what it found.
func check(paths []string, out io.Writer) error {
	products, collections, err := loadFiles(paths)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Products: %d\n", len(products))
	if len(paths) > 1 {
		fmt.Fprintf(out, "Collections: %d\n", len(collections))
		for _, c := range collections {
			fmt.Fprintf(out, "  %s %q: %d products\n", c.ID, c.Name, len(c.Products))
		}
	}

	generated := 0
	for i, p := range products {
		if p.ID == catalog.ProductID(i+1) {
			generated++
		}
	}
	if generated > 0 {
		fmt.Fprintf(out, "Generated ids: %d\n", generated)
	}

	warnings := catalog.ValidateProducts(products)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "No problems found")
		return nil
	}
	fmt.Fprintf(out, "Warnings: %d\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(out, "  %s\n", w)
	}
	return nil
}

func export(paths []string, outPath string, out io.Writer) error {
	products, collections, err := loadFiles(paths)
	if err != nil {
		return err
	}

	wb, err := catalog.BuildWorkbook(products, collections)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := wb.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	fmt.Fprintf(out, "Wrote %d products and %d collections to %s\n", len(products), len(collections), outPath)
	return nil
}

// loadFiles reads paths[0] as products and the optional paths[1] as collections.
func loadFiles(paths []string) ([]model.Product, []model.Collection, error) {
	productRows, err := readRows(paths[0])
	if err != nil {
		return nil, nil, err
	}
	if len(productRows) == 0 {
		return nil, nil, fmt.Errorf("%s has no data rows", paths[0])
	}
	products := catalog.MapProducts(productRows)

	collections := []model.Collection{}
	if len(paths) > 1 {
		collectionRows, err := readRows(paths[1])
		if err != nil {
			return nil, nil, err
		}
		collections = catalog.MapCollections(collectionRows, products)
	}
	return products, collections, nil
}

func readRows(path string) ([]catalog.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	rows, err := catalog.ParseFile(strings.ToLower(filepath.Base(path)), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}
