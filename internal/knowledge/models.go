package knowledge

// PersonalityType is one archetype in the static knowledge base. Identity is
// the Name, unique within the catalog.
type PersonalityType struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Traits      []string `json:"traits,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Emoji       string   `json:"emoji,omitempty"`
}

// Product is one sponsorship product attached to a personality type.
type Product struct {
	Product  string `json:"product"`
	Category string `json:"category"`
}

// Base is the fully loaded, validated knowledge base. It is immutable after
// Load and safe for concurrent readers.
type Base struct {
	Personalities  []PersonalityType
	ProductCatalog map[string][]Product
}

// Personality returns the personality with the given name, if present.
func (b *Base) Personality(name string) (PersonalityType, bool) {
	for _, p := range b.Personalities {
		if p.Name == name {
			return p, true
		}
	}
	return PersonalityType{}, false
}

// ProductsFor returns the products attached to a personality name. A missing
// catalog entry yields an empty slice, not an error: a catalog gap is a
// data-completeness issue, not a runtime failure.
func (b *Base) ProductsFor(name string) []Product {
	return b.ProductCatalog[name]
}

// CategoriesFor returns the ordered, de-duplicated category names attached to
// a personality.
func (b *Base) CategoriesFor(name string) []string {
	products := b.ProductCatalog[name]
	if len(products) == 0 {
		return []string{}
	}
	seen := make(map[string]bool, len(products))
	categories := make([]string, 0, len(products))
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}
