package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/singleflight"
)

// SupportedMajor is the manifest major version this build understands.
const SupportedMajor = "v1"

const manifestFile = "manifest.json"

// Bank is a read-only source of questions keyed by category.
type Bank interface {
	// LoadCategory returns the category's questions in bank order.
	// Returns *ErrCategoryNotFound if the category has no data source.
	LoadCategory(ctx context.Context, categoryID string) ([]Question, error)
}

// Manifest describes a bank directory.
type Manifest struct {
	Version    string     `json:"version"`
	Categories []Category `json:"categories"`
}

// FileBank serves questions from <id>.json files in an fs.FS. Each category
// is parsed and validated on first load, then cached for the process
// lifetime.
type FileBank struct {
	fsys     fs.FS
	manifest Manifest

	mu    sync.RWMutex
	cache map[string][]Question
	group singleflight.Group
}

var _ Bank = (*FileBank)(nil)

// NewFileBank opens a bank rooted at fsys and validates its manifest.
func NewFileBank(fsys fs.FS) (*FileBank, error) {
	m, err := readManifest(fsys)
	if err != nil {
		return nil, err
	}
	return &FileBank{
		fsys:     fsys,
		manifest: m,
		cache:    make(map[string][]Question),
	}, nil
}

// Version returns the manifest version.
func (b *FileBank) Version() string {
	return b.manifest.Version
}

// Catalog returns the categories in manifest order.
func (b *FileBank) Catalog() []Category {
	return slices.Clone(b.manifest.Categories)
}

// Title returns the catalog title of a category, or the ID when unlisted.
func (b *FileBank) Title(categoryID string) string {
	for _, c := range b.manifest.Categories {
		if c.ID == categoryID {
			return c.Title
		}
	}
	return categoryID
}

func (b *FileBank) LoadCategory(ctx context.Context, categoryID string) ([]Question, error) {
	if !validCategoryID(categoryID) {
		return nil, &ErrCategoryNotFound{CategoryID: categoryID}
	}

	b.mu.RLock()
	qs, ok := b.cache[categoryID]
	b.mu.RUnlock()
	if ok {
		return slices.Clone(qs), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := b.group.Do(categoryID, func() (any, error) {
		b.mu.RLock()
		qs, ok := b.cache[categoryID]
		b.mu.RUnlock()
		if ok {
			return qs, nil
		}

		qs, err := b.read(categoryID)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.cache[categoryID] = qs
		b.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]Question)), nil
}

// CountsByDifficulty returns the pool size of each difficulty.
func (b *FileBank) CountsByDifficulty(ctx context.Context, categoryID string) (map[Difficulty]int, error) {
	return CountsByDifficulty(ctx, b, categoryID)
}

// CountsByDifficulty returns the pool size of each difficulty of a category
// served by any Bank. Every difficulty is present in the result.
func CountsByDifficulty(ctx context.Context, bank Bank, categoryID string) (map[Difficulty]int, error) {
	qs, err := bank.LoadCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	counts := make(map[Difficulty]int, len(Difficulties))
	for _, d := range Difficulties {
		counts[d] = 0
	}
	for _, q := range qs {
		counts[q.Difficulty]++
	}
	return counts, nil
}

func (b *FileBank) read(categoryID string) ([]Question, error) {
	name := categoryID + ".json"
	raw, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrCategoryNotFound{CategoryID: categoryID}
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return ParseCategory(categoryID, raw)
}

// ParseCategory decodes and validates the contents of a category file.
func ParseCategory(categoryID string, raw []byte) ([]Question, error) {
	source := categoryID + ".json"
	invalid := func(err error) error {
		return &ErrInvalidBank{Source: source, Err: err}
	}

	catSchema, _, err := schemas()
	if err != nil {
		return nil, invalid(err)
	}
	if err := validateJSON(catSchema, raw); err != nil {
		return nil, invalid(err)
	}

	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, invalid(fmt.Errorf("decode: %w", err))
	}

	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return nil, invalid(err)
		}
		if q.CategoryID != categoryID {
			return nil, invalid(fmt.Errorf("question %s belongs to category %q", q.ID, q.CategoryID))
		}
		if seen[q.ID] {
			return nil, invalid(fmt.Errorf("duplicate question id %s", q.ID))
		}
		seen[q.ID] = true
	}
	return qs, nil
}

func readManifest(fsys fs.FS) (Manifest, error) {
	invalid := func(err error) error {
		return &ErrInvalidBank{Source: manifestFile, Err: err}
	}

	raw, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return Manifest{}, invalid(err)
	}

	_, manSchema, err := schemas()
	if err != nil {
		return Manifest{}, invalid(err)
	}
	if err := validateJSON(manSchema, raw); err != nil {
		return Manifest{}, invalid(err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, invalid(fmt.Errorf("decode: %w", err))
	}

	if !semver.IsValid(m.Version) {
		return Manifest{}, invalid(fmt.Errorf("version %q is not a semantic version", m.Version))
	}
	if major := semver.Major(m.Version); major != SupportedMajor {
		return Manifest{}, invalid(fmt.Errorf("version %s unsupported (want %s.x)", m.Version, SupportedMajor))
	}

	seen := make(map[string]bool, len(m.Categories))
	for _, c := range m.Categories {
		if !validCategoryID(c.ID) {
			return Manifest{}, invalid(fmt.Errorf("invalid category id %q", c.ID))
		}
		if seen[c.ID] {
			return Manifest{}, invalid(fmt.Errorf("duplicate category %q", c.ID))
		}
		seen[c.ID] = true
	}
	return m, nil
}

func validateJSON(schema *jsonschema.Schema, raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// validCategoryID rejects IDs that would escape the bank root or collide
// with the manifest.
func validCategoryID(id string) bool {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return false
	}
	if id+".json" == manifestFile {
		return false
	}
	return fs.ValidPath(path.Clean(id))
}
