package table

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoTable is returned when a Markdown document holds neither a table nor
// a csv/tsv code block.
var ErrNoTable = errors.New("no table or csv code block found in markdown")

// CodeBlock represents a fenced code block from markdown content.
type CodeBlock struct {
	// Lang is the language identifier of the code block (e.g., "csv").
	Lang string
	// Content is the raw text inside the code block.
	Content string
}

// parseMarkdown returns the rows of the first GFM table in the document.
// Without a table it falls back to the first fenced csv or tsv block.
func parseMarkdown(source []byte, comma rune) ([][]string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))

	var (
		rows  [][]string
		found bool
		block *CodeBlock
	)

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *east.Table:
			rows = tableRows(n, source)
			found = true
			return ast.WalkStop, nil
		case *ast.FencedCodeBlock:
			if block == nil {
				if cb := codeBlock(n, source); cb.Lang == "csv" || cb.Lang == "tsv" {
					block = &cb
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	if found {
		return rows, nil
	}
	if block != nil {
		if block.Lang == "tsv" {
			comma = '\t'
		}
		return ParseCSV([]byte(block.Content), comma)
	}
	return nil, ErrNoTable
}

// tableRows flattens a table's header and body rows into string fields.
func tableRows(tbl *east.Table, source []byte) [][]string {
	var rows [][]string
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *east.TableHeader, *east.TableRow:
		default:
			continue
		}
		var fields []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			fields = append(fields, strings.TrimSpace(string(cell.Text(source))))
		}
		rows = append(rows, fields)
	}
	return rows
}

func codeBlock(n *ast.FencedCodeBlock, source []byte) CodeBlock {
	var block CodeBlock
	if n.Info != nil {
		block.Lang = strings.ToLower(strings.TrimSpace(string(n.Info.Text(source))))
	}

	var content bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		content.Write(line.Value(source))
	}
	block.Content = content.String()
	return block
}
