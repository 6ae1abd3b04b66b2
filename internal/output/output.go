// Package output writes decoded Marshal documents and their derived views
// to files.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// treeFile is the top-level object written by WriteTreeJSON.
type treeFile struct {
	*marshal.Document
	Root *Node `json:"root"`
}

// WriteTreeJSON writes the document header fields and its JSON tree to path.
// An empty path writes to w instead.
func WriteTreeJSON(w io.Writer, path string, doc *marshal.Document, tbl *resolve.Table, fallback encoding.Encoding) error {
	v := treeFile{Document: doc, Root: Tree(doc.Root, tbl, fallback)}
	if path == "" {
		return EncodeJSON(w, v)
	}
	return writeJSON(path, v)
}

// statsFile is the JSON form of marshal.Stats with the per-tag counts
// flattened into a sorted list.
type statsFile struct {
	marshal.Stats
	ByTag []marshal.TagCount `json:"by_tag"`
}

// WriteStatsJSON writes tree statistics to path.
func WriteStatsJSON(path string, st marshal.Stats) error {
	return writeJSON(path, statsFile{Stats: st, ByTag: st.Sorted()})
}

// WriteDOT writes a Graphviz document to path, creating parent directories.
func WriteDOT(path string, dot string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// EncodeJSON writes v to w as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeJSON(f, v); err != nil {
		return fmt.Errorf("output: %s: %w", path, err)
	}
	return f.Close()
}
