package model

// Product is a catalog item.
type Product struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Price int      `json:"price" yaml:"price"`
	Sizes []string `json:"sizes" yaml:"sizes"`
	Image string   `json:"img" yaml:"img"`
}

// DefaultSize is the size preselected for the product.
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}
