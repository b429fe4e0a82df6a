package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies how table content is laid out.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// Options controls parsing.
type Options struct {
	Format Format
	// Comma is the field delimiter for CSV content. Zero means ','.
	Comma rune
}

// utf8BOM is written by some spreadsheet exports at the start of CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat guesses the format and delimiter from a file name.
func DetectFormat(path string) (Format, rune) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, ','
	case ".tsv", ".tab":
		return FormatCSV, '\t'
	case ".xlsx", ".xlsm":
		return FormatXLSX, ','
	default:
		return FormatCSV, ','
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "tsv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown table format %q (want csv, markdown or xlsx)", s)
	}
}

// SniffComma picks tab when the first line has tabs but no commas, which is
// what spreadsheets put on the clipboard. Otherwise it returns ','.
func SniffComma(content []byte) rune {
	line := bytes.TrimPrefix(content, utf8BOM)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 && bytes.IndexByte(line, ',') < 0 {
		return '\t'
	}
	return ','
}

// Parse splits content into rows of string fields, preserving order.
// Rows may have differing numbers of fields.
func Parse(content []byte, opts Options) ([][]string, error) {
	switch opts.Format {
	case FormatMarkdown:
		return parseMarkdown(content, opts.comma())
	case FormatXLSX:
		return parseXLSX(content)
	case FormatCSV, "":
		return ParseCSV(content, opts.comma())
	default:
		return nil, fmt.Errorf("unknown table format %q", opts.Format)
	}
}

// ParseCSV reads delimiter-separated rows. Blank lines are ignored. A quote
// inside an unquoted field is kept literally (12" vinyl.txt).
func ParseCSV(content []byte, comma rune) ([][]string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}
