package variant

import (
	"slices"
	"strings"

	"github.com/koperasihub/product-form-service/internal/model"
)

const (
	SKUSeparator  = "-"
	DefaultPrice  = "0"
	DefaultWeight = "1000"
	DefaultStock  = "0"
)

// Defaults seeds variants for combinations that have no prior match.
type Defaults struct {
	BaseSKU  string
	Price    string
	Weight   string
	GudangID string
}

// SKU builds the templated SKU for a combination, e.g. BAJU-MERAH-S.
func SKU(base string, values []string) string {
	parts := make([]string, 0, len(values)+1)
	if base = strings.TrimSpace(base); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, values...)
	return strings.ToUpper(strings.Join(parts, SKUSeparator))
}

// New builds a fresh variant for combo. The image is deliberately left
// empty so every variant gets its own picture.
func (d Defaults) New(combo []string) *model.Variant {
	price := d.Price
	if price == "" {
		price = DefaultPrice
	}
	weight := d.Weight
	if weight == "" {
		weight = DefaultWeight
	}
	return &model.Variant{
		SKU:          SKU(d.BaseSKU, combo),
		Price:        price,
		Weight:       weight,
		OptionValues: slices.Clone(combo),
		GudangID:     d.GudangID,
		Stock:        DefaultStock,
		IsActive:     true,
	}
}

// Reconcile returns one variant per combination, in combination order.
// A prior variant is reused as-is when its option values, compared as a
// sorted multiset, equal the combination's; each prior variant is reused
// at most once. Everything else gets a default variant.
func Reconcile(combos [][]string, prev []*model.Variant, d Defaults) []*model.Variant {
	if len(combos) == 0 {
		return nil
	}

	byKey := make(map[string][]*model.Variant, len(prev))
	for _, v := range prev {
		if v == nil {
			continue
		}
		k := key(v.OptionValues)
		byKey[k] = append(byKey[k], v)
	}

	out := make([]*model.Variant, 0, len(combos))
	for _, combo := range combos {
		k := key(combo)
		if matches := byKey[k]; len(matches) > 0 {
			out = append(out, matches[0])
			byKey[k] = matches[1:]
			continue
		}
		out = append(out, d.New(combo))
	}
	return out
}

// key is the order-independent identity of a value list.
func key(values []string) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x00")
}
