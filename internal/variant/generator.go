// Package variant turns product options into the list of purchasable
// variants and keeps operator edits alive across regeneration.
package variant

import (
	"strings"

	"github.com/koperasihub/product-form-service/internal/model"
)

// MaxOptions is the number of option dimensions a product may carry.
const MaxOptions = 2

// IsValid reports whether opt takes part in generation: a non-blank name
// and at least one value.
func IsValid(opt model.Option) bool {
	return strings.TrimSpace(opt.Name) != "" && len(opt.Values) > 0
}

// ValidOptions filters options down to the valid ones, preserving order.
func ValidOptions(options []model.Option) []model.Option {
	valid := make([]model.Option, 0, len(options))
	for _, opt := range options {
		if IsValid(opt) {
			valid = append(valid, opt)
		}
	}
	return valid
}

// Combinations is the cartesian product of the valid options' values, in
// declaration order with the last option varying fastest. It returns nil
// when no option is valid.
func Combinations(options []model.Option) [][]string {
	valid := ValidOptions(options)
	if len(valid) == 0 {
		return nil
	}

	combos := [][]string{{}}
	for _, opt := range valid {
		next := make([][]string, 0, len(combos)*len(opt.Values))
		for _, combo := range combos {
			for _, value := range opt.Values {
				c := make([]string, len(combo), len(combo)+1)
				copy(c, combo)
				next = append(next, append(c, value))
			}
		}
		combos = next
	}
	return combos
}

// Count returns how many combinations Combinations would produce without
// materialising them.
func Count(options []model.Option) int {
	valid := ValidOptions(options)
	if len(valid) == 0 {
		return 0
	}
	n := 1
	for _, opt := range valid {
		n *= len(opt.Values)
	}
	return n
}

// Label renders a combination for operators, e.g. "Merah / S".
func Label(values []string) string {
	return strings.Join(values, " / ")
}
