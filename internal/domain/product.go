package domain

import "strings"

const (
	// DefaultCategory is assigned to catalog entries without a category label.
	DefaultCategory = "general"
	// DefaultCurrency is used when a product or list carries no currency code.
	DefaultCurrency = "JOD"
)

// Nutrition holds per-100g values; nil means the catalog did not report it.
type Nutrition struct {
	Calories *float64 `json:"calories_per_100g,omitempty" yaml:"calories_per_100g,omitempty"`
	Protein  *float64 `json:"protein_per_100g,omitempty" yaml:"protein_per_100g,omitempty"`
	Carbs    *float64 `json:"carbs_per_100g,omitempty" yaml:"carbs_per_100g,omitempty"`
	Fats     *float64 `json:"fats_per_100g,omitempty" yaml:"fats_per_100g,omitempty"`
	Fiber    *float64 `json:"fiber_per_100g,omitempty" yaml:"fiber_per_100g,omitempty"`
}

// Empty reports whether no nutrient is known.
func (n Nutrition) Empty() bool {
	return n.Calories == nil && n.Protein == nil && n.Carbs == nil && n.Fats == nil && n.Fiber == nil
}

// Dietary flags as reported by the catalog.
type Dietary struct {
	GlutenFree bool `json:"is_gluten_free,omitempty" yaml:"is_gluten_free,omitempty"`
	Vegetarian bool `json:"is_vegetarian,omitempty" yaml:"is_vegetarian,omitempty"`
	Vegan      bool `json:"is_vegan,omitempty" yaml:"is_vegan,omitempty"`
	Halal      bool `json:"is_halal,omitempty" yaml:"is_halal,omitempty"`
	Organic    bool `json:"is_organic,omitempty" yaml:"is_organic,omitempty"`
	Healthy    bool `json:"is_healthy,omitempty" yaml:"is_healthy,omitempty"`
}

// Product is one catalog entry. The engine treats it as a value: any
// correction (e.g. re-tagging the category) happens on a copy.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	NameEN      string  `json:"name_en,omitempty" yaml:"name_en,omitempty"`
	NameAR      string  `json:"name_ar,omitempty" yaml:"name_ar,omitempty"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	Currency    string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	StoreName   string  `json:"store_name,omitempty" yaml:"store_name,omitempty"`
	ProductURL  string  `json:"product_url,omitempty" yaml:"product_url,omitempty"`
	ImageURL    string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	Nutrition `yaml:",inline"`
	Dietary   `yaml:",inline"`
}

// Normalize fills defaults for category, currency and the primary name.
func (p Product) Normalize() Product {
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if strings.TrimSpace(p.Name) == "" {
		if p.NameEN != "" {
			p.Name = p.NameEN
		} else {
			p.Name = p.NameAR
		}
	}
	return p
}

// Valid reports whether the product can take part in list building at all.
func (p Product) Valid() bool {
	return p.ID != "" && len(p.Names()) > 0
}

// Names returns the non-empty lowercased name variants, primary name first.
func (p Product) Names() []string {
	names := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, n := range []string{p.Name, p.NameEN, p.NameAR} {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// SearchText concatenates names, description and category, lowercased.
func (p Product) SearchText() string {
	parts := p.Names()
	if d := strings.TrimSpace(p.Description); d != "" {
		parts = append(parts, strings.ToLower(d))
	}
	parts = append(parts, strings.ToLower(p.Category))
	return strings.Join(parts, " ")
}

// DisplayName prefers the primary name, then English, then Arabic.
func (p Product) DisplayName() string {
	for _, n := range []string{p.Name, p.NameEN, p.NameAR} {
		if s := strings.TrimSpace(n); s != "" {
			return s
		}
	}
	return p.ID
}
