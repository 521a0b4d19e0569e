package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	ProductsSheet    = "Products"
	CollectionsSheet = "Collections"
)

// ParseXLSX reads the first sheet of a workbook into rows with the same shape ParseCSV produces.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	cells, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(cells) == 0 {
		return []Row{}, nil
	}

	headers := trimAll(cells[0])
	rows := make([]Row, 0, len(cells)-1)
	for _, values := range cells[1:] {
		values = trimAll(values)
		if strings.Join(values, "") == "" {
			continue
		}
		rows = append(rows, buildRow(headers, values))
	}
	return rows, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// BuildWorkbook renders products and collections into a two-sheet workbook using the CSV columns.
func BuildWorkbook(products []model.Product, collections []model.Collection) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), ProductsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CollectionsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	productRecords := make([][]string, 0, len(products))
	for _, p := range products {
		productRecords = append(productRecords, ProductRecord(p))
	}
	if err := writeSheet(f, ProductsSheet, ProductColumns, productRecords); err != nil {
		f.Close()
		return nil, err
	}

	collectionRecords := make([][]string, 0, len(collections))
	for _, c := range collections {
		collectionRecords = append(collectionRecords, CollectionRecord(c))
	}
	if err := writeSheet(f, CollectionsSheet, CollectionColumns, collectionRecords); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, records [][]string) error {
	write := func(rowNum int, values []string) error {
		cellName, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
		}
		return nil
	}

	if err := write(1, header); err != nil {
		return err
	}
	for i, record := range records {
		if err := write(i+2, record); err != nil {
			return err
		}
	}
	return nil
}
