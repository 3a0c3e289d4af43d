package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Title     string
	SheetName string
	Headers   []string
	Rows      []map[string]string
	// Numeric names headers whose cells are written as numbers where the
	// format supports it.
	Numeric map[string]bool
	// GroupEnds holds row indexes closing a visual group (a week, a tier).
	GroupEnds []int
	// Emphasis holds row indexes rendered in bold, e.g. subtotals.
	Emphasis []int
}

// Renderer turns a dataset into a binary document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// Format names a supported document type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a user supplied format, defaulting to xlsx.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Extension returns the file extension without dot.
func (f Format) Extension() string {
	if f == "" {
		return string(FormatXLSX)
	}
	return string(f)
}

func indexSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
