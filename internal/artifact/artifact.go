// Package artifact delivers generated text to the user: saved as files on
// disk (the browser's download) or copied to the system clipboard.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/sync/errgroup"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ErrExists is returned when a file would be overwritten without Overwrite.
var ErrExists = errors.New("file already exists")

// File is a named text artifact.
type File struct {
	Name    string
	Content string
}

// SaveOptions controls where and how files are written.
type SaveOptions struct {
	Dir       string
	Overwrite bool
}

// Copy puts content on the system clipboard.
func Copy(content string) error {
	if err := clipboardWriteAll(content); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// Save writes f into opts.Dir and returns the path written. Only the base
// of f.Name is used.
func Save(f File, opts SaveOptions) (string, error) {
	path, err := target(f, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s: %w", path, ErrExists)
		}
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := out.WriteString(f.Content); err != nil {
		out.Close() //nolint:errcheck
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// target is the path f is written to.
func target(f File, opts SaveOptions) (string, error) {
	name := filepath.Base(strings.TrimSpace(f.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", f.Name)
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name), nil
}

// SaveAll writes files concurrently and returns their paths in input order.
// Duplicate names, invalid names and, without Overwrite, existing files
// are rejected before anything is written.
func SaveAll(ctx context.Context, files []File, opts SaveOptions) ([]string, error) {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		path, err := target(f, opts)
		if err != nil {
			return nil, err
		}
		if seen[path] {
			return nil, fmt.Errorf("duplicate file name %q", filepath.Base(path))
		}
		seen[path] = true
		if opts.Overwrite {
			continue
		}
		if _, err := os.Lstat(path); err == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", path, err)
		}
	}

	paths := make([]string, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := Save(f, opts)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
