// Package filesystem loads topics and problems from JSON and YAML files
// and watches them for changes.
package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// Kind selects how a file's entries are decoded.
type Kind string

// Supported kinds. KindAuto infers the kind from each entry's fields.
const (
	KindAuto    Kind = ""
	KindTopic   Kind = "topic"
	KindProblem Kind = "problem"
)

// ParseKind accepts "", "auto", "topic(s)" and "problem(s)".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "topic", "topics":
		return KindTopic, nil
	case "problem", "problems":
		return KindProblem, nil
	default:
		return KindAuto, fmt.Errorf("%w: unknown kind %q (want topic or problem)", domain.ErrInvalidInput, s)
	}
}

// Fields only a problem carries, and fields only a topic carries.
var (
	problemFields = []string{"description", "approaches", "metadata", "hints", "examples"}
	topicFields   = []string{"definition", "category", "key_ideas", "algorithm_steps", "code_examples"}
)

// IsContentFile reports whether path is a visible .json, .yaml or .yml file.
func IsContentFile(path string) bool {
	if isHidden(path) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// isHidden reports whether the base name starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// Discover expands directories into the content files beneath them,
// skipping hidden entries. Files are returned as given. The result is sorted
// and free of duplicates.
func Discover(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range paths {
		p = ResolvePath(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			seen[p] = struct{}{}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && isHidden(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsContentFile(path) {
				seen[path] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile decodes every document in a file.
// A file holds one document or a list of documents.
func LoadFile(path string, kind Kind) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	docs, err := Decode(data, filepath.Ext(path), kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Decode parses data in the format named by ext (".json", ".yaml" or ".yml").
func Decode(data []byte, ext string, kind Kind) ([]domain.Document, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return decodeJSON(data, kind)
	case ".yaml", ".yml":
		return decodeYAML(data, kind)
	default:
		return nil, fmt.Errorf("%w: unsupported file extension %q", domain.ErrUnsupportedDocument, ext)
	}
}

func decodeJSON(data []byte, kind Kind) ([]domain.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	} else {
		entries = []json.RawMessage{data}
	}

	docs := make([]domain.Document, 0, len(entries))
	for i, raw := range entries {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidInput, i, err)
		}
		doc, err := newDocument(kind, fields)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidInput, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeYAML(data []byte, kind Kind) ([]domain.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	top := root.Content[0]
	entries := []*yaml.Node{top}
	if top.Kind == yaml.SequenceNode {
		entries = top.Content
	}

	docs := make([]domain.Document, 0, len(entries))
	for i, node := range entries {
		var fields map[string]any
		if err := node.Decode(&fields); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidInput, i, err)
		}
		doc, err := newDocument(kind, fields)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := node.Decode(doc); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidInput, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// newDocument returns an empty Topic or Problem for the entry.
func newDocument(kind Kind, fields map[string]any) (domain.Document, error) {
	if kind == KindAuto {
		var err error
		if kind, err = inferKind(fields); err != nil {
			return nil, err
		}
	}
	switch kind {
	case KindTopic:
		return &domain.Topic{}, nil
	case KindProblem:
		return &domain.Problem{}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrUnsupportedDocument, kind)
	}
}

var errAmbiguousKind = errors.New("cannot tell whether entry is a topic or a problem; pass --kind")

// inferKind picks the kind whose distinguishing fields the entry has more of.
// An explicit "kind" field wins.
func inferKind(fields map[string]any) (Kind, error) {
	if raw, ok := fields["kind"].(string); ok {
		k, err := ParseKind(raw)
		if err == nil && k != KindAuto {
			return k, nil
		}
	}

	problems, topics := count(fields, problemFields), count(fields, topicFields)
	switch {
	case problems > topics:
		return KindProblem, nil
	case topics > problems:
		return KindTopic, nil
	default:
		return KindAuto, fmt.Errorf("%w: %w", domain.ErrUnsupportedDocument, errAmbiguousKind)
	}
}

func count(fields map[string]any, keys []string) int {
	n := 0
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			n++
		}
	}
	return n
}
