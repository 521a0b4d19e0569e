// Package catalog turns raw products/collections files into domain records.
//
// The CSV contract is deliberately narrow: first line is the header, comma is
// the only delimiter and there is no quoting. Files that need commas inside a
// value cannot be expressed; this matches the files the storefront is fed with.
package catalog

import (
	"strings"
)

// Row is one data line keyed by header name. Every header is present; values are trimmed.
type Row map[string]string

// Get returns the trimmed value for a column, or "" when the column is unknown.
func (r Row) Get(column string) string {
	return r[column]
}

// ParseCSV splits text into rows using the first line as the header.
// Lines shorter than the header yield "" for the missing columns and extra values are ignored.
// A blank line between data lines is an all-empty row, so row positions match line positions.
func ParseCSV(text string) []Row {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Row{}
	}

	lines := strings.Split(text, "\n")
	headers := splitLine(lines[0])

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, buildRow(headers, splitLine(line)))
	}
	return rows
}

func buildRow(headers, values []string) Row {
	row := make(Row, len(headers))
	for j, header := range headers {
		if j < len(values) {
			row[header] = values[j]
		} else {
			row[header] = ""
		}
	}
	return row
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitList splits a ";"-delimited cell, trimming elements and dropping empty ones.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
