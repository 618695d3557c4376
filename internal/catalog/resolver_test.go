package catalog

import (
	"errors"
	"testing"
	"testing/fstest"
)

func validTestJSON(title string) []byte {
	return []byte(`{
		"title": "` + title + `",
		"questions": [
			{"id": "q1", "text": "2+2?", "options": ["3", "4"], "correctIndex": 1},
			{"id": "q2", "text": "5*5?", "options": ["25", "10", "55"], "correctIndex": 0}
		]
	}`)
}

func newTestResolver(files map[string][]byte) *Resolver {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return NewResolver(fsys, nil)
}

func TestResolveSimpleIdentifier(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json": validTestJSON("Тест для взрослых"),
	})

	test, err := r.Resolve("adults_general")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if test.ID != "adults_general" || test.Category != "adults" || test.Variant != "general" {
		t.Errorf("normalization wrong: %+v", test)
	}
	if test.Title != "Тест для взрослых" {
		t.Errorf("title = %q", test.Title)
	}
	if len(test.Questions) != 2 {
		t.Errorf("questions = %d", len(test.Questions))
	}
}

func TestResolveNormalizesClaimedFields(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json": []byte(`{
			"id": "bogus", "category": "wrong", "variant": "nope",
			"questions": [{"id": "q1", "text": "?", "options": ["a", "b"], "correctIndex": 0}]
		}`),
	})

	test, err := r.Resolve("adults_general")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if test.ID != "adults_general" || test.Category != "adults" || test.Variant != "general" {
		t.Errorf("on-disk claims not overwritten: %+v", test)
	}
	// Missing title defaults to the normalized id.
	if test.Title != "adults_general" {
		t.Errorf("title = %q, want adults_general", test.Title)
	}
}

func TestResolvePrecedenceLeftmostSplitWins(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"a/b_c.json": validTestJSON("left split"),
		"a_b/c.json": validTestJSON("right split"),
	})

	test, err := r.Resolve("a_b_c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if test.Category != "a" || test.Variant != "b_c" {
		t.Errorf("want leftmost viable split a/b_c.json, got category=%q variant=%q", test.Category, test.Variant)
	}
}

func TestResolveLaterSplitUsedWhenEarlierFileMissing(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"a/unrelated.json": validTestJSON("x"),
		"a_b/c.json":       validTestJSON("right split"),
	})

	test, err := r.Resolve("a_b_c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if test.Category != "a_b" || test.Variant != "c" {
		t.Errorf("got category=%q variant=%q", test.Category, test.Variant)
	}
}

func TestResolveAliasTransparency(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"children/level_1.json": validTestJSON("Школьный тест"),
	})

	direct, err := r.Resolve("children_level_1")
	if err != nil {
		t.Fatalf("Resolve(children_level_1): %v", err)
	}
	aliased, err := r.Resolve("school_level_1")
	if err != nil {
		t.Fatalf("Resolve(school_level_1): %v", err)
	}

	if direct.ID != aliased.ID || direct.Category != aliased.Category || direct.Variant != aliased.Variant {
		t.Errorf("alias not transparent: %+v vs %+v", direct, aliased)
	}
	if aliased.Category != "children" || aliased.ID != "children_level_1" {
		t.Errorf("alias not normalized to folder name: %+v", aliased)
	}
}

func TestResolveNestedPathFallback(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/advanced/budgeting.json": validTestJSON("Бюджет"),
	})

	test, err := r.Resolve("adults_advanced_budgeting")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if test.Category != "adults" || test.Variant != "advanced_budgeting" {
		t.Errorf("got category=%q variant=%q", test.Category, test.Variant)
	}
	if test.ID != "adults_advanced_budgeting" {
		t.Errorf("id = %q", test.ID)
	}
}

func TestResolveNoUnderscore(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json": validTestJSON("x"),
	})

	_, err := r.Resolve("adults")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestResolveNotFoundRetainsTriedPaths(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json": validTestJSON("x"),
	})

	_, err := r.Resolve("adults_missing_variant")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if len(nf.Tried) == 0 {
		t.Error("tried path list is empty")
	}
}

func TestResolveParseError(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json": []byte(`{not json`),
	})

	_, err := r.Resolve("adults_general")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if pe.Path != "adults/general.json" {
		t.Errorf("path = %q", pe.Path)
	}
}

func TestResolveRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"no questions":        `{"questions": []}`,
		"question without id": `{"questions": [{"text": "?", "options": ["a", "b"], "correctIndex": 0}]}`,
		"single option":       `{"questions": [{"id": "q1", "text": "?", "options": ["a"], "correctIndex": 0}]}`,
		"index out of range":  `{"questions": [{"id": "q1", "text": "?", "options": ["a", "b"], "correctIndex": 5}]}`,
		"duplicate ids":       `{"questions": [{"id": "q1", "text": "?", "options": ["a", "b"], "correctIndex": 0}, {"id": "q1", "text": "?", "options": ["a", "b"], "correctIndex": 1}]}`,
	}

	for name, doc := range cases {
		r := newTestResolver(map[string][]byte{"adults/general.json": []byte(doc)})
		_, err := r.Resolve("adults_general")
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: want ParseError, got %v", name, err)
		}
	}
}

func TestListDiscoversAndSkips(t *testing.T) {
	r := newTestResolver(map[string][]byte{
		"adults/general.json":            validTestJSON("Общий"),
		"adults/advanced/budgeting.json": validTestJSON("Бюджет"),
		"children/level_1.json":          validTestJSON("Уровень 1"),
		"children/broken.json":           []byte(`{oops`),
		"readme.json":                    validTestJSON("top-level, must be ignored"),
	})

	list, skipped, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	ids := make(map[string]bool)
	for _, info := range list {
		ids[info.ID] = true
	}
	for _, want := range []string{"adults_general", "adults_advanced_budgeting", "children_level_1"} {
		if !ids[want] {
			t.Errorf("missing %s in list %v", want, list)
		}
	}
	if ids["readme"] || len(list) != 3 {
		t.Errorf("unexpected entries: %v", list)
	}

	if len(skipped) != 1 || skipped[0].ID != "children_broken" {
		t.Fatalf("skipped = %v", skipped)
	}
	if skipped[0].Reason == "" {
		t.Error("skipped entry has no reason")
	}
}

func TestCategories(t *testing.T) {
	fsys := fstest.MapFS{
		"adults/general.json":    &fstest.MapFile{Data: validTestJSON("x")},
		"children/l.json":        &fstest.MapFile{Data: validTestJSON("x")},
		"children_extra/l.json":  &fstest.MapFile{Data: validTestJSON("x")},
		"pensioners/basics.json": &fstest.MapFile{Data: validTestJSON("x")},
		"custom/one.json":        &fstest.MapFile{Data: validTestJSON("x")},
	}
	r := NewResolver(fsys, map[string]string{"custom": "Специальный"})

	categories, err := r.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}

	byKey := make(map[string]string)
	for _, cat := range categories {
		byKey[cat.Key] = cat.Title
	}

	if len(categories) != 4 {
		t.Errorf("want 4 categories (children family collapsed), got %v", categories)
	}
	if _, ok := byKey["school"]; !ok {
		t.Error("children folder not mapped to school key")
	}
	if _, ok := byKey["seniors"]; !ok {
		t.Error("pensioners folder not mapped to seniors key")
	}
	if byKey["custom"] != "Специальный" {
		t.Errorf("custom title = %q", byKey["custom"])
	}
}
