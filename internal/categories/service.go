package categories

import "github.com/floraledger/flora/internal/model"

// Catalogue provides lookups over the category table.
type Catalogue struct {
	infos      []Info
	byCategory map[model.Category]Info
}

// New creates a Catalogue from a slice of category descriptions.
func New(infos []Info) *Catalogue {
	by := make(map[model.Category]Info, len(infos))
	for _, i := range infos {
		by[i.Category] = i
	}
	return &Catalogue{infos: infos, byCategory: by}
}

// Default returns a Catalogue over DefaultCatalogue.
func Default() *Catalogue {
	return New(DefaultCatalogue())
}

// All returns every category description.
func (c *Catalogue) All() []Info {
	return c.infos
}

// Get returns the description of a category.
func (c *Catalogue) Get(cat model.Category) (Info, bool) {
	i, ok := c.byCategory[cat]
	return i, ok
}

// Exists reports whether a category is in the catalogue.
func (c *Catalogue) Exists(cat model.Category) bool {
	_, ok := c.byCategory[cat]
	return ok
}

// TreatmentOf returns the profit treatment of a category. Unknown categories
// are treated as operating costs.
func (c *Catalogue) TreatmentOf(cat model.Category) Treatment {
	if i, ok := c.byCategory[cat]; ok {
		return i.Treatment
	}
	return TreatmentOperating
}

// Allows reports whether a transaction of type t may carry category cat.
func (c *Catalogue) Allows(cat model.Category, t model.TxType) bool {
	i, ok := c.byCategory[cat]
	if !ok {
		return false
	}
	for _, allowed := range i.Types {
		if allowed == t {
			return true
		}
	}
	return false
}

// DefaultType returns the first allowed type for a category.
func (c *Catalogue) DefaultType(cat model.Category) (model.TxType, bool) {
	i, ok := c.byCategory[cat]
	if !ok || len(i.Types) == 0 {
		return "", false
	}
	return i.Types[0], true
}

// ByTreatment returns all categories with the given treatment.
func (c *Catalogue) ByTreatment(t Treatment) []Info {
	var result []Info
	for _, i := range c.infos {
		if i.Treatment == t {
			result = append(result, i)
		}
	}
	return result
}

// Manual returns the categories offered for manual entry.
func (c *Catalogue) Manual() []Info {
	var result []Info
	for _, i := range c.infos {
		if i.Manual {
			result = append(result, i)
		}
	}
	return result
}
