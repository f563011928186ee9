package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

const markdownExt = ".md"

// ErrNotInVault is returned when a path resolves outside the vault root.
var ErrNotInVault = errors.New("path is outside the vault")

// Vault serves the Markdown notes below a root directory.
type Vault struct {
	basePath string
}

// NewVault constructs a Vault rooted at the provided directory. If basePath
// is empty, it falls back to ResolveVaultPath.
func NewVault(basePath string) (*Vault, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveVaultPath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Vault{basePath: abs}, nil
}

// BasePath returns the vault root.
func (v *Vault) BasePath() string {
	return v.basePath
}

// Documents lists every note in lexical path order. Hidden directories such
// as .obsidian and .git are skipped.
func (v *Vault) Documents(ctx context.Context) ([]tracker.Document, error) {
	if v == nil {
		return nil, errors.New("files.Vault is nil")
	}

	var docs []tracker.Document
	err := filepath.WalkDir(v.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != v.basePath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), markdownExt) {
			return nil
		}

		docs = append(docs, tracker.Document{
			Basename: strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Path:     path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}
	return docs, nil
}

// Read returns the full text of doc.
func (v *Vault) Read(ctx context.Context, doc tracker.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := v.contain(doc.Path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Lookup returns the first note named basename, mirroring how blocks resolve
// their file: directive.
func (v *Vault) Lookup(ctx context.Context, basename string) (tracker.Document, error) {
	docs, err := v.Documents(ctx)
	if err != nil {
		return tracker.Document{}, err
	}
	for _, doc := range docs {
		if doc.Basename == basename {
			return doc, nil
		}
	}
	return tracker.Document{}, tracker.ErrTargetFileNotFound
}

// Relative returns doc's path relative to the vault root.
func (v *Vault) Relative(doc tracker.Document) string {
	rel, err := filepath.Rel(v.basePath, doc.Path)
	if err != nil {
		return doc.Path
	}
	return rel
}

// contain resolves path against the vault root and rejects anything that
// escapes it.
func (v *Vault) contain(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.basePath, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(v.basePath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrNotInVault, path)
	}
	return path, nil
}
