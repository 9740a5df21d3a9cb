// Package catalog loads the storefront product list.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/storefront-server/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("catalog has no products")

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []model.Product
	byID     map[string]int
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog from path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML product list. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var products []model.Product
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product #%d has no id", i+1)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if len(p.Sizes) == 0 {
			return nil, fmt.Errorf("product %q has no sizes", p.ID)
		}
		byID[p.ID] = i
	}

	return &Catalog{products: products, byID: byID}, nil
}

// All returns a copy of the product list in catalog order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// First is the fallback product for unknown ids.
func (c *Catalog) First() model.Product {
	return c.products[0]
}

// Search returns the products whose name contains query, ignoring case.
// The query is trimmed; an empty query matches everything.
func (c *Catalog) Search(query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// JSON renders the catalog as indented JSON.
func (c *Catalog) JSON() ([]byte, error) {
	return json.MarshalIndent(c.products, "", "  ")
}
