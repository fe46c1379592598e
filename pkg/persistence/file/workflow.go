package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dukex/n8nsync/pkg/layout"
	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// WorkflowRepository stores snapshots as <root>/<category>/<stem>.json.
type WorkflowRepository struct {
	root     string
	validate *validator.Validate
}

// NewWorkflowRepository creates a repository rooted at the workflows directory.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{
		root:     cleanRoot(root),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Root returns the workflows directory.
func (wr *WorkflowRepository) Root() string {
	return wr.root
}

// Path returns the absolute location of a record.
func (wr *WorkflowRepository) Path(record persistence.Record) string {
	return filepath.Join(wr.root, string(record.Category), record.Filename)
}

// Save overwrites <category>/<stem>.json with the snapshot.
func (wr *WorkflowRepository) Save(_ context.Context, category models.Category, stem string, snapshot *models.Snapshot) (persistence.Record, error) {
	record := persistence.Record{Category: category, Filename: stem + layout.Extension}

	if !category.IsValid() {
		return record, persistence.NewRecordError("Save", record.RelativePath(), persistence.ErrInvalidCategory)
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snapshot); err != nil {
		return record, fmt.Errorf("failed to marshal workflow %s: %w", snapshot.Name, err)
	}

	if err := writeFileAtomic(wr.Path(record), buf.Bytes()); err != nil {
		return record, fmt.Errorf("failed to save workflow %s: %w", record.RelativePath(), err)
	}

	return record, nil
}

// Load reads a snapshot and checks it against the envelope schema.
func (wr *WorkflowRepository) Load(_ context.Context, record persistence.Record) (*models.Snapshot, error) {
	body, err := os.ReadFile(wr.Path(record))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewRecordError("Load", record.RelativePath(), persistence.ErrRecordNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", record.RelativePath(), err)
	}

	if err := validateDocument(body); err != nil {
		return nil, invalidSnapshot(record, err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, invalidSnapshot(record, err)
	}

	if err := wr.validate.Struct(&snapshot); err != nil {
		return nil, invalidSnapshot(record, err)
	}

	return &snapshot, nil
}

func invalidSnapshot(record persistence.Record, cause error) error {
	return persistence.NewRecordError("Load", record.RelativePath(), fmt.Errorf("%w: %v", persistence.ErrInvalidSnapshot, cause))
}

// List returns every snapshot file, category by category, filtered by opts.
func (wr *WorkflowRepository) List(_ context.Context, opts persistence.ListOptions) ([]persistence.Record, error) {
	match, err := newFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	records := make([]persistence.Record, 0)

	for _, category := range models.Categories() {
		names, err := wr.snapshotFiles(category)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			record := persistence.Record{Category: category, Filename: name}
			if match(record.RelativePath()) {
				records = append(records, record)
			}
		}
	}

	return records, nil
}

// Find resolves a deploy target. "<category>/<fragment>" matches files in that
// category whose name contains the fragment; a target ending in .json is taken
// as a path relative to the root. An exact stem match beats substring matches.
func (wr *WorkflowRepository) Find(ctx context.Context, target string) (persistence.Record, error) {
	target = strings.Trim(filepath.ToSlash(target), "/")

	if strings.HasSuffix(target, layout.Extension) {
		return wr.findExact(target)
	}

	category, fragment, found := strings.Cut(target, "/")
	if !found || fragment == "" {
		fragment = category
	}

	names, err := wr.snapshotFiles(models.Category(category))
	if err != nil {
		return persistence.Record{}, err
	}

	matches := make([]persistence.Record, 0, 1)

	for _, name := range names {
		record := persistence.Record{Category: models.Category(category), Filename: name}

		if strings.TrimSuffix(name, layout.Extension) == fragment {
			return record, nil
		}

		if strings.Contains(name, fragment) {
			matches = append(matches, record)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		recordErr := persistence.NewRecordError("Find", target, persistence.ErrRecordNotFound)
		recordErr.Candidates = wr.available(ctx)

		return persistence.Record{}, recordErr
	default:
		recordErr := persistence.NewRecordError("Find", target, persistence.ErrAmbiguousMatch)
		for _, m := range matches {
			recordErr.Candidates = append(recordErr.Candidates, m.RelativePath())
		}

		return persistence.Record{}, recordErr
	}
}

func (wr *WorkflowRepository) findExact(target string) (persistence.Record, error) {
	dir, name := filepath.Split(target)
	record := persistence.Record{
		Category: models.Category(strings.Trim(dir, "/")),
		Filename: name,
	}

	if !record.Category.IsValid() {
		return persistence.Record{}, persistence.NewRecordError("Find", target, persistence.ErrInvalidCategory)
	}

	if _, err := os.Stat(wr.Path(record)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			recordErr := persistence.NewRecordError("Find", target, persistence.ErrRecordNotFound)
			recordErr.Candidates = wr.available(context.Background())

			return persistence.Record{}, recordErr
		}

		return persistence.Record{}, fmt.Errorf("failed to stat workflow %s: %w", target, err)
	}

	return record, nil
}

func (wr *WorkflowRepository) available(ctx context.Context) []string {
	records, err := wr.List(ctx, persistence.ListOptions{})
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, strings.TrimSuffix(record.RelativePath(), layout.Extension))
	}

	return names
}

// StoredName returns the name of an existing snapshot without decoding it fully.
func (wr *WorkflowRepository) StoredName(_ context.Context, category models.Category, stem string) (string, bool, error) {
	record := persistence.Record{Category: category, Filename: stem + layout.Extension}

	body, err := os.ReadFile(wr.Path(record))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to read workflow %s: %w", record.RelativePath(), err)
	}

	return gjson.GetBytes(body, "name").String(), true, nil
}

// snapshotFiles lists *.json files in a category directory, sorted by name.
// A missing directory is an empty category.
func (wr *WorkflowRepository) snapshotFiles(category models.Category) ([]string, error) {
	if category == "" || strings.ContainsAny(string(category), `/\`) || string(category) == ".." {
		return nil, nil
	}

	entries, err := os.ReadDir(filepath.Join(wr.root, string(category)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list category %s: %w", category, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, layout.Extension) {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

func newFilter(filter string) (func(string) bool, error) {
	if filter == "" {
		return func(string) bool { return true }, nil
	}

	if !strings.ContainsAny(filter, "*?[{") {
		return func(relativePath string) bool {
			return strings.Contains(relativePath, filter)
		}, nil
	}

	if !doublestar.ValidatePattern(filter) {
		return nil, fmt.Errorf("%w: %q", persistence.ErrInvalidFilter, filter)
	}

	return func(relativePath string) bool {
		ok, _ := doublestar.Match(filter, relativePath)

		return ok
	}, nil
}
