package catalog

import (
	"encoding/json"
	"os"
)

// metaDocument mirrors the on-disk tests_meta.json shape.
type metaDocument struct {
	Titles map[string]string `json:"titles"`
}

// LoadMeta reads category display titles from the given path. The file is
// optional: a missing or unreadable file yields an empty map, never an
// error, so the server can start without it.
func LoadMeta(path string) map[string]string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}
	}
	var doc metaDocument
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Titles == nil {
		return map[string]string{}
	}
	return doc.Titles
}
