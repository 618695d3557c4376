// Package catalog locates and parses test definitions in a content tree.
//
// Identifiers are "<category>_<variant>" strings, but both halves may
// themselves contain underscores, so there is no single canonical split
// point — the resolver tries every one, left to right. The tree is re-read
// on every call: the resolver holds no cache, so edits to test files are
// picked up immediately at the cost of redundant I/O.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/finlitportal/finlit-backend/internal/model"
)

// folderAliases maps UI-facing category names to storage folder names.
var folderAliases = map[string]string{
	"school":  "children",
	"seniors": "pensioners",
}

// Resolver resolves loosely-formed test identifiers against a content root.
// The root is an fs.FS so tests can substitute an in-memory tree.
type Resolver struct {
	fsys fs.FS
	// categoryTitles holds optional display titles for top-level folders,
	// keyed by folder name.
	categoryTitles map[string]string
}

// NewResolver creates a Resolver over the given content root.
func NewResolver(fsys fs.FS, categoryTitles map[string]string) *Resolver {
	return &Resolver{fsys: fsys, categoryTitles: categoryTitles}
}

// Resolve maps an identifier to a parsed, normalized Test.
//
// Every underscore is tried as a category/variant split, left to right; a
// split is viable only when the (alias-translated) category is an existing
// top-level folder. The first viable split whose file reads and parses wins.
// If none succeeds, a fallback pass splits at the first underscore only and
// additionally interprets remaining variant underscores as path separators.
//
// Failure modes: *NotFoundError when nothing matched, *ParseError when the
// best candidate existed but was malformed, and a plain wrapped error for
// I/O failures other than "file does not exist".
func (r *Resolver) Resolve(testID string) (*model.Test, error) {
	if !strings.Contains(testID, "_") {
		return nil, &NotFoundError{ID: testID}
	}

	folders, err := r.topLevelFolders()
	if err != nil {
		return nil, fmt.Errorf("list content root: %w", err)
	}

	var tried []string
	var parseErr *ParseError

	for i := 1; i < len(testID)-1; i++ {
		if testID[i] != '_' {
			continue
		}
		folder := resolveAlias(testID[:i])
		variant := testID[i+1:]
		if !folders[folder] {
			continue
		}

		rel := folder + "/" + variant + ".json"
		tried = append(tried, rel)

		test, err := r.readTest(rel, folder, variant)
		if err == nil {
			return test, nil
		}
		if err := classify(err, &parseErr); err != nil {
			return nil, err
		}
	}

	// Last resort: split at the first underscore only, trying both the flat
	// variant and a nested-path interpretation of its underscores.
	first := strings.Index(testID, "_")
	folder := resolveAlias(testID[:first])
	variant := testID[first+1:]

	if folder != "" && variant != "" {
		candidates := []string{
			folder + "/" + variant + ".json",
			folder + "/" + strings.ReplaceAll(variant, "_", "/") + ".json",
		}
		for _, rel := range candidates {
			tried = append(tried, rel)
			test, err := r.readTest(rel, folder, variant)
			if err == nil {
				return test, nil
			}
			if err := classify(err, &parseErr); err != nil {
				return nil, err
			}
		}
	}

	if parseErr != nil {
		return nil, parseErr
	}
	return nil, &NotFoundError{ID: testID, Tried: tried}
}

// classify decides whether a readTest failure ends resolution. Missing files
// and malformed documents let the caller keep trying other splits (the first
// malformed candidate is remembered); anything else is a real I/O failure
// and is returned as-is.
func classify(err error, parseErr **ParseError) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		if *parseErr == nil {
			*parseErr = pe
		}
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil
	}
	return fmt.Errorf("read test file: %w", err)
}

func resolveAlias(rawCategory string) string {
	if folder, ok := folderAliases[rawCategory]; ok {
		return folder
	}
	return rawCategory
}

func (r *Resolver) topLevelFolders() (map[string]bool, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, err
	}
	folders := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			folders[e.Name()] = true
		}
	}
	return folders, nil
}

// readTest reads and validates one candidate file, overwriting the
// document's claimed id/category/variant with the normalized values and
// defaulting an absent title to the normalized id.
func (r *Resolver) readTest(rel, folder, variant string) (*model.Test, error) {
	raw, err := fs.ReadFile(r.fsys, rel)
	if err != nil {
		return nil, err
	}

	var test model.Test
	if err := json.Unmarshal(raw, &test); err != nil {
		return nil, &ParseError{Path: rel, Err: err}
	}
	if err := validateTest(&test); err != nil {
		return nil, &ParseError{Path: rel, Err: err}
	}

	test.Category = folder
	test.Variant = variant
	test.ID = folder + "_" + variant
	if strings.TrimSpace(test.Title) == "" {
		test.Title = test.ID
	}
	return &test, nil
}

func validateTest(test *model.Test) error {
	if len(test.Questions) == 0 {
		return errors.New("test has no questions")
	}
	seen := make(map[string]bool, len(test.Questions))
	for i, q := range test.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q has fewer than 2 options", q.ID)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %q has correctIndex %d out of range", q.ID, q.CorrectIndex)
		}
	}
	return nil
}

// List walks the whole content tree and returns every discoverable test,
// normalized through Resolve. Each JSON file two or more levels below the
// root becomes the candidate identifier
// "<firstSegment>_<remainingSegmentsJoinedByUnderscore>". Files that fail to
// resolve are reported as skipped instead of aborting the listing.
func (r *Resolver) List() ([]model.TestInfo, []model.SkippedTest, error) {
	var list []model.TestInfo
	var skipped []model.SkippedTest

	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".json") {
			return nil
		}

		segs := strings.Split(p, "/")
		if len(segs) < 2 {
			// Files directly under the root have no category folder.
			return nil
		}

		category := segs[0]
		inner := append(segs[1:len(segs)-1], strings.TrimSuffix(segs[len(segs)-1], path.Ext(p)))
		id := category + "_" + strings.Join(inner, "_")

		test, rerr := r.Resolve(id)
		if rerr != nil {
			skipped = append(skipped, model.SkippedTest{ID: id, Reason: rerr.Error()})
			return nil
		}
		list = append(list, model.TestInfo{
			ID:       test.ID,
			Title:    test.Title,
			Category: test.Category,
			Variant:  test.Variant,
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk content root: %w", err)
	}
	return list, skipped, nil
}

// Categories lists the top-level content folders as UI categories. Folder
// families like "children_extra" collapse into their base category, and the
// three built-in folders translate to their UI keys and default titles.
func (r *Resolver) Categories() ([]model.Category, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list content root: %w", err)
	}

	seen := make(map[string]bool)
	var categories []model.Category
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		base := baseFolder(e.Name())
		if seen[base] {
			continue
		}
		seen[base] = true
		categories = append(categories, model.Category{
			Key:   folderToKey(base),
			Title: r.folderTitle(base),
		})
	}
	return categories, nil
}

func baseFolder(name string) string {
	for _, base := range []string{"children", "adults", "pensioners"} {
		if name == base || strings.HasPrefix(name, base+"_") {
			return base
		}
	}
	return name
}

func folderToKey(base string) string {
	switch base {
	case "children":
		return "school"
	case "pensioners":
		return "seniors"
	default:
		return base
	}
}

func (r *Resolver) folderTitle(base string) string {
	if title, ok := r.categoryTitles[base]; ok && title != "" {
		return title
	}
	switch base {
	case "children":
		return "Школьники"
	case "adults":
		return "Взрослые"
	case "pensioners":
		return "Пенсионеры"
	default:
		return base
	}
}
