package hubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/shopspring/decimal"
)

type ImagePayload struct {
	ImageURL     string `json:"image_url"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type ProductPayload struct {
	StoreID int64 `json:"store_id,omitempty"`
	model.ProductFields
	Images []ImagePayload `json:"images,omitempty"`
}

type OptionPayload struct {
	StoreID   int64  `json:"store_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

type OptionValuePayload struct {
	StoreID         int64  `json:"store_id"`
	ProductOptionID int64  `json:"product_option_id"`
	Value           string `json:"value"`
}

// OptionValueFilter selects values by option or, when OptionID is zero, by store.
type OptionValueFilter struct {
	OptionID int64
	StoreID  int64
}

type VariantPayload struct {
	StoreID        int64   `json:"store_id"`
	ProductID      int64   `json:"product_id"`
	SKU            string  `json:"sku"`
	Price          string  `json:"price"`
	DiscountPrice  string  `json:"discount_price"`
	Weight         string  `json:"weight"`
	Image          string  `json:"image"`
	IsActive       bool    `json:"is_active"`
	OptionValueIDs []int64 `json:"option_value_ids"`
}

type record struct {
	ID ID `json:"id"`
}

type optionValueRecord struct {
	ID              ID     `json:"id"`
	StoreID         ID     `json:"store_id"`
	ProductOptionID ID     `json:"product_option_id"`
	Value           string `json:"value"`
}

type variantRecord struct {
	ID            ID     `json:"id"`
	SKU           string `json:"sku"`
	Price         any    `json:"price"`
	DiscountPrice any    `json:"discount_price"`
	Weight        any    `json:"weight"`
	Image         string `json:"image"`
	IsActive      bool   `json:"is_active"`
	OptionValues  []struct {
		Value string `json:"value"`
	} `json:"option_values"`
}

func (c *Client) CreateProduct(ctx context.Context, p *ProductPayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return 0, fmt.Errorf("%w: product id missing", ErrMalformedResponse)
	}
	return int64(rec.ID), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p *ProductPayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return id, nil
	}
	return int64(rec.ID), nil
}

func (c *Client) CreateOption(ctx context.Context, p *OptionPayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPost, "/product-options", nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return 0, fmt.Errorf("%w: option id missing", ErrMalformedResponse)
	}
	return int64(rec.ID), nil
}

func (c *Client) ListOptionValues(ctx context.Context, f OptionValueFilter) ([]model.OptionValue, error) {
	q := url.Values{}
	if f.OptionID != 0 {
		q.Set("option_id", strconv.FormatInt(f.OptionID, 10))
	} else {
		q.Set("store_id", strconv.FormatInt(f.StoreID, 10))
	}

	var recs []optionValueRecord
	if err := c.do(ctx, http.MethodGet, "/product-option-values", q, nil, &recs); err != nil {
		return nil, err
	}

	values := make([]model.OptionValue, 0, len(recs))
	for _, r := range recs {
		values = append(values, model.OptionValue{
			ID:              int64(r.ID),
			StoreID:         int64(r.StoreID),
			ProductOptionID: int64(r.ProductOptionID),
			Value:           r.Value,
		})
	}
	return values, nil
}

func (c *Client) CreateOptionValue(ctx context.Context, p *OptionValuePayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPost, "/product-option-values", nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return 0, fmt.Errorf("%w: option value id missing", ErrMalformedResponse)
	}
	return int64(rec.ID), nil
}

func (c *Client) ListVariants(ctx context.Context, productID int64) ([]*model.Variant, error) {
	q := url.Values{"product_id": {strconv.FormatInt(productID, 10)}}

	var recs []variantRecord
	if err := c.do(ctx, http.MethodGet, "/product-variants", q, nil, &recs); err != nil {
		return nil, err
	}

	variants := make([]*model.Variant, 0, len(recs))
	for _, r := range recs {
		v := &model.Variant{
			ID:            int64(r.ID),
			SKU:           r.SKU,
			Price:         loose(r.Price),
			DiscountPrice: loose(r.DiscountPrice),
			Weight:        loose(r.Weight),
			IsActive:      r.IsActive,
		}
		if r.Image != "" {
			v.Image = model.RemoteImage(r.Image)
		}
		for _, ov := range r.OptionValues {
			v.OptionValues = append(v.OptionValues, ov.Value)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

func (c *Client) CreateVariant(ctx context.Context, p *VariantPayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPost, "/product-variants", nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return 0, fmt.Errorf("%w: variant id missing", ErrMalformedResponse)
	}
	return int64(rec.ID), nil
}

func (c *Client) UpdateVariant(ctx context.Context, id int64, p *VariantPayload) (int64, error) {
	var rec record
	if err := c.do(ctx, http.MethodPut, "/product-variants/"+strconv.FormatInt(id, 10), nil, p, &rec); err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return id, nil
	}
	return int64(rec.ID), nil
}

type stockPayload struct {
	ProductID int64       `json:"product_id"`
	VariantID *int64      `json:"product_variant_id,omitempty"`
	GudangID  string      `json:"gudang_id"`
	Stock     json.Number `json:"stock"`
}

// UpdateStock upserts the stock row keyed by product, variant and warehouse.
func (c *Client) UpdateStock(ctx context.Context, s *model.Stock) error {
	qty, err := decimal.NewFromString(s.Stock)
	if err != nil {
		return fmt.Errorf("stock %q: %w", s.Stock, err)
	}
	payload := stockPayload{
		ProductID: s.ProductID,
		VariantID: s.VariantID,
		GudangID:  s.GudangID,
		Stock:     json.Number(qty.String()),
	}
	return c.do(ctx, http.MethodPost, "/inventory/update-stock", nil, payload, nil)
}

func (c *Client) ListCategories(ctx context.Context, storeID int64, kind model.CategoryKind) ([]model.Category, error) {
	q := url.Values{
		"store_id": {strconv.FormatInt(storeID, 10)},
		"type":     {string(kind)},
	}
	var cats []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", q, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) ListWarehouses(ctx context.Context, storeID int64) ([]model.Warehouse, error) {
	q := url.Values{"store_id": {strconv.FormatInt(storeID, 10)}}

	var recs []struct {
		ID      any    `json:"id"`
		StoreID ID     `json:"store_id"`
		Name    string `json:"name"`
		City    string `json:"city"`
	}
	if err := c.do(ctx, http.MethodGet, "/gudang", q, nil, &recs); err != nil {
		return nil, err
	}

	out := make([]model.Warehouse, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.Warehouse{
			ID:      loose(r.ID),
			StoreID: int64(r.StoreID),
			Name:    r.Name,
			City:    r.City,
		})
	}
	return out, nil
}

// loose renders a JSON scalar the hub may send as either number or string.
func loose(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return decimal.NewFromFloat(t).String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
