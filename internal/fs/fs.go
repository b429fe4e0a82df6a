package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver turns table paths into absolute paths under a parent directory.
type PathResolver struct {
	parentDir string
}

// Resolved holds the paths derived from one record.
type Resolved struct {
	Source string
	Ext    string
	Target string
}

// NewPathResolver creates a new PathResolver. An empty parentDir means the
// current working directory.
func NewPathResolver(parentDir string) (*PathResolver, error) {
	if parentDir == "" {
		wd, err := getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		parentDir = wd
	}
	return &PathResolver{parentDir: parentDir}, nil
}

var getwd = os.Getwd

// ParentDir returns the directory relative paths are resolved against.
func (r *PathResolver) ParentDir() string {
	return r.parentDir
}

// Resolve joins relativePath onto the parent directory and returns the
// absolute, cleaned result. An absolute relativePath replaces the parent
// directory. A leading "~" of the joined path expands to the home directory.
func (r *PathResolver) Resolve(relativePath string) (string, error) {
	p := NormalizeSeparators(relativePath)
	if !filepath.IsAbs(p) {
		p = filepath.Join(NormalizeSeparators(r.parentDir), p)
	}
	p, err := ExpandHome(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}

// ResolveRecord resolves the source of a record and builds the target path
// that keeps the source's extension.
func (r *PathResolver) ResolveRecord(relativePath, newName string) (Resolved, error) {
	src, err := r.Resolve(relativePath)
	if err != nil {
		return Resolved{}, err
	}
	_, ext := SplitExt(filepath.Base(src))
	return Resolved{
		Source: src,
		Ext:    ext,
		Target: filepath.Join(filepath.Dir(src), newName+ext),
	}, nil
}

// NormalizeSeparators rewrites both '/' and '\' to the host separator so that
// tables written on Windows resolve on Unix and the other way round.
func NormalizeSeparators(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

// ExpandHome replaces a leading "~" with the current user's home directory.
// "~user" forms are left untouched.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not expand '~': %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// SplitExt splits name into root and extension. The extension starts at the
// last '.', unless every character before that dot is also a dot, in which
// case the extension is empty (".gitignore", "..").
func SplitExt(name string) (root, ext string) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, ""
	}
	if strings.TrimLeft(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}

// IsRegularFile reports whether path exists and is a regular file.
// Symlinks are followed.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RenameError reports a failed rename. Its message is the text of the
// underlying OS error.
type RenameError struct {
	Source string
	Target string
	Err    error
}

func (e *RenameError) Error() string {
	return e.Err.Error()
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Rename moves src to dst with a single rename call.
func Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return &RenameError{Source: src, Target: dst, Err: err}
	}
	return nil
}
