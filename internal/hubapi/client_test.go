package hubapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&Config{BaseURL: srv.URL, Token: "secret"}, logger.NewNop())
}

func TestCreateProductAcceptsStringID(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"data":{"id":"17","name":"Baju"}}`))
	})

	id, err := c.CreateProduct(context.Background(), &ProductPayload{
		StoreID:       3,
		ProductFields: model.ProductFields{Name: "Baju", SKU: "BAJU", Price: "10000"},
		Images:        []ImagePayload{{ImageURL: "https://cdn/a.png", IsPrimary: true}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 17 {
		t.Fatalf("expected id 17 got %d", id)
	}
	if got["sku"] != "BAJU" || got["price"] != "10000" {
		t.Fatalf("payload not flattened: %v", got)
	}
	imgs, _ := got["images"].([]any)
	if len(imgs) != 1 {
		t.Fatalf("images missing from payload: %v", got)
	}
}

func TestAPIErrorUsesPayloadMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"SKU sudah digunakan"}`))
	})

	_, err := c.CreateOption(context.Background(), &OptionPayload{StoreID: 1, ProductID: 2, Name: "Warna"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "SKU sudah digunakan" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.CreateProduct(context.Background(), &ProductPayload{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != fallbackMessage {
		t.Fatalf("expected fallback message got %v", err)
	}
}

func TestSuccessFalseIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"store closed"}`))
	})

	err := c.UpdateStock(context.Background(), &model.Stock{ProductID: 1, GudangID: "g", Stock: "1"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "store closed" {
		t.Fatalf("expected store closed got %v", err)
	}
}

func TestListOptionValuesBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("option_id") != "9" {
			t.Errorf("option_id filter missing: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":1,"product_option_id":"9","value":"Merah"},{"id":"2","product_option_id":9,"value":"Biru"}]`))
	})

	values, err := c.ListOptionValues(context.Background(), OptionValueFilter{OptionID: 9, StoreID: 4})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(values) != 2 || values[1].ID != 2 || values[1].ProductOptionID != 9 || values[0].Value != "Merah" {
		t.Fatalf("unexpected values %+v", values)
	}
}

func TestListOptionValuesByStore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("store_id") != "4" || r.URL.Query().Has("option_id") {
			t.Errorf("expected store filter only: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	if _, err := c.ListOptionValues(context.Background(), OptionValueFilter{StoreID: 4}); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestUpdateStockPayload(t *testing.T) {
	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventory/update-stock" {
			t.Errorf("path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"success":true}`))
	})

	if err := c.UpdateStock(context.Background(), &model.Stock{ProductID: 5, GudangID: "G1", Stock: "12"}); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if _, ok := body["product_variant_id"]; ok {
		t.Fatalf("simple stock must omit the variant id: %s", body)
	}
	if string(body["stock"]) != "12" {
		t.Fatalf("stock should be a JSON number, got %s", body["stock"])
	}

	variantID := int64(8)
	if err := c.UpdateStock(context.Background(), &model.Stock{ProductID: 5, VariantID: &variantID, GudangID: "G1", Stock: "3"}); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if string(body["product_variant_id"]) != "8" {
		t.Fatalf("variant id missing: %s", body)
	}
}

func TestUpdateStockRejectsGarbage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if err := c.UpdateStock(context.Background(), &model.Stock{Stock: "lots"}); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestListVariantsLooseNumbers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":3,"sku":"BAJU-MERAH","price":150000,"weight":"200","image":"https://cdn/m.png","is_active":true,"option_values":[{"value":"Merah"}]}]}`))
	})

	vs, err := c.ListVariants(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	v := vs[0]
	if v.ID != 3 || v.Price != "150000" || v.Weight != "200" || v.Image.URL != "https://cdn/m.png" {
		t.Fatalf("unexpected variant %+v", v)
	}
	if len(v.OptionValues) != 1 || v.OptionValues[0] != "Merah" {
		t.Fatalf("option values %v", v.OptionValues)
	}
}

func TestUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		for k, want := range map[string]string{"role": "vendor", "userId": "u-1", "storeId": "7", "type": "product"} {
			if got := r.FormValue(k); got != want {
				t.Errorf("%s = %q want %q", k, got, want)
			}
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "a.png" || string(data) != "png-bytes" {
			t.Errorf("file %s %q", hdr.Filename, data)
		}
		w.Write([]byte(`{"success":true,"path":"/storage/a.png"}`))
	})

	loc, err := c.Upload(context.Background(), &UploadRequest{
		File:    &model.LocalFile{Name: "a.png", ContentType: "image/png", Data: []byte("png-bytes")},
		Role:    "vendor",
		UserID:  "u-1",
		StoreID: 7,
		Type:    "product",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if loc != "/storage/a.png" {
		t.Fatalf("expected path fallback got %q", loc)
	}
}

func TestUploadFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"file too large"}`))
	})

	_, err := c.Upload(context.Background(), &UploadRequest{File: &model.LocalFile{Name: "a.png", Data: []byte("x")}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "file too large" {
		t.Fatalf("expected upload error got %v", err)
	}
}
