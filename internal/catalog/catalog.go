// Package catalog exposes the bundled car reference data: brand categories,
// brands, per-brand model lists, and the flat feature list. The data is
// embedded at build time and read-only at runtime.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed data.yaml
var rawData []byte

// DefaultCategory is the category the selection form starts on.
const DefaultCategory = "mainstream"

type data struct {
	Categories map[string][]string `yaml:"categories"`
	Models     map[string][]string `yaml:"models"`
	Features   []string            `yaml:"features"`
}

var (
	loadOnce sync.Once
	loaded   data
	loadErr  error
)

func load() data {
	loadOnce.Do(func() {
		if err := yaml.Unmarshal(rawData, &loaded); err != nil {
			loadErr = fmt.Errorf("parse embedded catalog: %w", err)
		}
	})
	if loadErr != nil {
		// The catalog is compiled into the binary; a parse failure is a
		// build defect, not a runtime condition.
		panic(loadErr)
	}
	return loaded
}

// Categories returns all brand category names in sorted order.
func Categories() []string {
	d := load()
	out := make([]string, 0, len(d.Categories))
	for c := range d.Categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasCategory reports whether the named category exists.
func HasCategory(category string) bool {
	_, ok := load().Categories[category]
	return ok
}

// Brands returns the brands of a category in catalog order, or nil for an
// unknown category.
func Brands(category string) []string {
	return clone(load().Categories[category])
}

// HasBrand reports whether the brand belongs to the category.
func HasBrand(category, brand string) bool {
	for _, b := range load().Categories[category] {
		if b == brand {
			return true
		}
	}
	return false
}

// Models returns the model list of a brand in catalog order. Unknown brands
// yield an empty list, mirroring the "No models available" display state.
func Models(brand string) []string {
	return clone(load().Models[brand])
}

// HasModel reports whether the model belongs to the brand.
func HasModel(brand, model string) bool {
	for _, m := range load().Models[brand] {
		if m == model {
			return true
		}
	}
	return false
}

// Features returns the flat feature list, independent of brand.
func Features() []string {
	return clone(load().Features)
}

// HasFeature reports whether the feature exists in the catalog.
func HasFeature(feature string) bool {
	for _, f := range load().Features {
		if f == feature {
			return true
		}
	}
	return false
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
