package export

import "fmt"

// Sheet is a titled grid of text cells.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Fill optionally shades cells by exact value (RGB).
	Fill map[string][3]int
}

// Renderer turns a sheet into a downloadable document.
type Renderer interface {
	Render(sheet Sheet) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for "csv" or "pdf".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "csv":
		return NewCSVRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func validate(sheet Sheet) error {
	if len(sheet.Headers) == 0 {
		return fmt.Errorf("sheet requires at least one header")
	}
	for i, row := range sheet.Rows {
		if len(row) != len(sheet.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(sheet.Headers))
		}
	}
	return nil
}
