// Package terms holds the job-title term dictionary used by the candidate matcher.
// A Dictionary is built once at process start and never mutated afterwards,
// so it is safe to share between goroutines.
package terms

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/candidate-search/internal/tokenizer"
)

// Dictionary is an immutable mapping of job categories to synonym phrases.
type Dictionary struct {
	categories map[string][]string
	names      []string // sorted category names
	phrases    []string // flattened, in category then declaration order
}

// File is the YAML layout accepted by LoadFile.
type File struct {
	Categories map[string][]string `yaml:"categories"`
}

var defaultDictionary = mustNew(defaultCategories)

// Default returns the built-in dictionary.
func Default() *Dictionary {
	return defaultDictionary
}

// New builds a dictionary from category → phrases. Phrases are normalized
// (lowercased, whitespace collapsed) and de-duplicated within a category.
func New(categories map[string][]string) (*Dictionary, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("dictionary must contain at least one category")
	}

	d := &Dictionary{categories: make(map[string][]string, len(categories))}
	for name, phrases := range categories {
		key := strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("category name cannot be empty")
		}
		if len(phrases) == 0 {
			return nil, fmt.Errorf("category '%s' has no phrases", key)
		}
		seen := make(map[string]struct{}, len(phrases))
		normalized := make([]string, 0, len(phrases))
		for _, p := range phrases {
			np := tokenizer.Normalize(p)
			if np == "" {
				return nil, fmt.Errorf("category '%s' contains an empty phrase", key)
			}
			if _, dup := seen[np]; dup {
				continue
			}
			seen[np] = struct{}{}
			normalized = append(normalized, np)
		}
		d.categories[key] = normalized
		d.names = append(d.names, key)
	}
	sort.Strings(d.names)

	for _, name := range d.names {
		d.phrases = append(d.phrases, d.categories[name]...)
	}
	return d, nil
}

func mustNew(categories map[string][]string) *Dictionary {
	d, err := New(categories)
	if err != nil {
		panic(fmt.Sprintf("terms: invalid built-in dictionary: %v", err))
	}
	return d
}

// LoadFile reads a YAML dictionary of the form
//
//	categories:
//	  sales: [sales executive, sales agent]
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse terms file %s: %w", path, err)
	}

	d, err := New(f.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid terms file %s: %w", path, err)
	}
	return d, nil
}

// Phrases returns every phrase of the dictionary as a flat list.
func (d *Dictionary) Phrases() []string {
	out := make([]string, len(d.phrases))
	copy(out, d.phrases)
	return out
}

// Categories returns the sorted category names.
func (d *Dictionary) Categories() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Category returns the phrases of one category.
func (d *Dictionary) Category(name string) ([]string, bool) {
	phrases, ok := d.categories[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out, true
}

// Len returns the number of phrases.
func (d *Dictionary) Len() int {
	return len(d.phrases)
}

// PhrasesIn returns the phrases contained in text (lowercased substring match),
// in dictionary order.
func (d *Dictionary) PhrasesIn(text string) []string {
	lower := strings.ToLower(text)
	if lower == "" {
		return nil
	}
	var found []string
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	return found
}

// CategoryOf returns the first category (in sorted order) with a phrase contained in text.
func (d *Dictionary) CategoryOf(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range d.names {
		for _, p := range d.categories[name] {
			if strings.Contains(lower, p) {
				return name, true
			}
		}
	}
	return "", false
}
