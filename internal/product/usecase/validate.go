package usecase

import (
	"fmt"
	"strings"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/variant"
	"github.com/shopspring/decimal"
)

// checkOptions guards the generator input: option count and, when capped,
// the size of the cartesian product.
func checkOptions(d *model.ProductDraft, maxCombinations int) product.ValidationErrors {
	if !d.HasVariants {
		return nil
	}
	var errs product.ValidationErrors
	if len(d.Options) > variant.MaxOptions {
		errs = append(errs, &product.ValidationError{
			Field:     "options",
			MessageID: "ValidationTooManyOptions",
			Data:      map[string]any{"Max": variant.MaxOptions},
			Message:   fmt.Sprintf("A product can have at most %d options", variant.MaxOptions),
		})
	}
	if n := variant.Count(d.Options); maxCombinations > 0 && n > maxCombinations {
		errs = append(errs, &product.ValidationError{
			Field:     "options",
			MessageID: "ValidationTooManyCombinations",
			Data:      map[string]any{"Count": n, "Max": maxCombinations},
			Message:   fmt.Sprintf("Options produce %d variants, the limit is %d", n, maxCombinations),
		})
	}
	return errs
}

// validateSubmit runs every pre-flight check. It never touches the network.
func validateSubmit(d *model.ProductDraft, maxCombinations int) product.ValidationErrors {
	errs := checkOptions(d, maxCombinations)

	if !hasImage(d.Images) {
		errs = append(errs, &product.ValidationError{
			Field:     "images",
			MessageID: "ValidationNoImages",
			Message:   "Add at least one product image",
		})
	}

	for _, f := range []struct{ name, value string }{
		{"price", d.Product.Price},
		{"discount_price", d.Product.DiscountPrice},
		{"weight", d.Product.Weight},
	} {
		if !validDecimal(f.value) {
			errs = append(errs, &product.ValidationError{
				Field:     f.name,
				MessageID: "ValidationInvalidDecimal",
				Data:      map[string]any{"Field": f.name},
				Message:   fmt.Sprintf("%s must be a non-negative number", f.name),
			})
		}
	}

	if !d.HasVariants {
		if strings.TrimSpace(d.SimpleStock.GudangID) == "" {
			errs = append(errs, &product.ValidationError{
				Field:     "simple_stock.gudang_id",
				MessageID: "ValidationWarehouseRequired",
				Message:   "Choose a warehouse for the product stock",
			})
		}
		if !validDecimal(d.SimpleStock.Stock) {
			errs = append(errs, &product.ValidationError{
				Field:     "simple_stock.stock",
				MessageID: "ValidationInvalidDecimal",
				Data:      map[string]any{"Field": "stock"},
				Message:   "stock must be a non-negative number",
			})
		}
		return errs
	}

	if len(d.Variants) == 0 {
		errs = append(errs, &product.ValidationError{
			Field:     "variants",
			MessageID: "ValidationNoVariants",
			Message:   "Variants are enabled but no option has a name and values",
		})
	}
	for _, v := range d.Variants {
		errs = append(errs, validateVariant(v)...)
	}
	return errs
}

func validateVariant(v *model.Variant) product.ValidationErrors {
	combo := variant.Label(v.OptionValues)
	var errs product.ValidationErrors

	required := []struct {
		name  string
		empty bool
	}{
		{"sku", strings.TrimSpace(v.SKU) == ""},
		{"price", strings.TrimSpace(v.Price) == ""},
		{"stock", strings.TrimSpace(v.Stock) == ""},
		{"image", v.Image.IsEmpty()},
	}
	for _, r := range required {
		if r.empty {
			errs = append(errs, &product.ValidationError{
				Field:       "variants." + r.name,
				Combination: combo,
				MessageID:   "ValidationVariantFieldRequired",
				Data:        map[string]any{"Combination": combo, "Field": r.name},
				Message:     fmt.Sprintf("Variant %s: %s is required", combo, r.name),
			})
		}
	}

	if strings.TrimSpace(v.GudangID) == "" {
		errs = append(errs, &product.ValidationError{
			Field:       "variants.gudang_id",
			Combination: combo,
			MessageID:   "ValidationVariantWarehouseRequired",
			Data:        map[string]any{"Combination": combo},
			Message:     fmt.Sprintf("Variant %s: choose a warehouse", combo),
		})
	}

	for _, f := range []struct{ name, value string }{
		{"price", v.Price},
		{"discount_price", v.DiscountPrice},
		{"weight", v.Weight},
		{"stock", v.Stock},
	} {
		if !validDecimal(f.value) {
			errs = append(errs, &product.ValidationError{
				Field:       "variants." + f.name,
				Combination: combo,
				MessageID:   "ValidationVariantInvalidDecimal",
				Data:        map[string]any{"Combination": combo, "Field": f.name},
				Message:     fmt.Sprintf("Variant %s: %s must be a non-negative number", combo, f.name),
			})
		}
	}
	return errs
}

func hasImage(images []model.ProductImage) bool {
	for _, img := range images {
		if !img.Image.IsEmpty() {
			return true
		}
	}
	return false
}

// validDecimal accepts an empty value; presence is checked separately.
func validDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	d, err := decimal.NewFromString(s)
	return err == nil && !d.IsNegative()
}
