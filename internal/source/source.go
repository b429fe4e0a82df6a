package source

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// StdinPath is the input path that selects standard input.
const StdinPath = "-"

// Kind identifies where table content comes from.
type Kind int

const (
	File Kind = iota
	Stdin
	Clipboard
)

func (k Kind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case Clipboard:
		return "clipboard"
	default:
		return "file"
	}
}

// SourceProvider determines and retrieves the table content.
type SourceProvider struct {
	kind  Kind
	path  string
	stdin io.Reader
	paste func() (string, error)
}

// New creates a SourceProvider for path. useClipboard takes precedence over
// path; a path of "-" reads standard input.
func New(path string, useClipboard bool) *SourceProvider {
	sp := &SourceProvider{
		kind:  File,
		path:  path,
		stdin: os.Stdin,
		paste: clipboard.ReadAll,
	}
	switch {
	case useClipboard:
		sp.kind = Clipboard
	case path == StdinPath:
		sp.kind = Stdin
	}
	return sp
}

// NewReader creates a SourceProvider that reads from r as if it were stdin.
func NewReader(r io.Reader) *SourceProvider {
	return &SourceProvider{kind: Stdin, path: StdinPath, stdin: r}
}

// Kind reports where content will be read from.
func (sp *SourceProvider) Kind() Kind {
	return sp.kind
}

// Path returns the file path, or "-" for stdin.
func (sp *SourceProvider) Path() string {
	return sp.path
}

// IsFile reports whether the content comes from a file on disk.
func (sp *SourceProvider) IsFile() bool {
	return sp.kind == File
}

// GetContent retrieves the raw table bytes.
func (sp *SourceProvider) GetContent() ([]byte, error) {
	switch sp.kind {
	case Stdin:
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	case Clipboard:
		content, err := sp.paste()
		if err != nil {
			return nil, fmt.Errorf("failed to read from clipboard: %w", err)
		}
		return []byte(content), nil
	default:
		content, err := os.ReadFile(sp.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", sp.path, err)
		}
		return content, nil
	}
}
